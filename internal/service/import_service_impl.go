package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/importer"
)

type importService struct {
	e *Engine
}

func NewImportService(e *Engine) ImportService {
	return &importService{e: e}
}

func (s *importService) ImportFile(ctx context.Context, path string) (domain.Record, error) {
	rec, err := importer.LoadRecordFile(path)
	if err != nil {
		return domain.Record{}, fmt.Errorf("loading import file: %w", err)
	}
	return s.importRecord(ctx, rec)
}

func (s *importService) Import(ctx context.Context, data []byte) (domain.Record, error) {
	rec, err := importer.ParseRecord(data)
	if err != nil {
		return domain.Record{}, err
	}
	return s.importRecord(ctx, rec)
}

func (s *importService) importRecord(ctx context.Context, in *importer.RecordImport) (rec domain.Record, err error) {
	if errs := importer.ValidateRecord(in); len(errs) > 0 {
		return domain.Record{}, importer.FormatValidationErrors(errs)
	}

	u := s.e.begin(ctx, "import")
	defer func() {
		u.fields["source_id"] = in.ID
		u.fields["id"] = rec.ID
		u.end()
	}()

	rec = importer.Convert(in, s.e.nowUTC(), func(id string) bool {
		return s.e.indexOf(id) >= 0
	}, s.e.newID)
	s.e.list = append(s.e.list, rec.Clone())
	u.publishList()
	return rec, nil
}
