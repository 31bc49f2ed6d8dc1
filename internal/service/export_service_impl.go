package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/importer"
	"github.com/alexanderramin/formdraft/internal/repository"
)

type exportService struct {
	registry RegistryService
}

func NewExportService(registry RegistryService) ExportService {
	return &exportService{registry: registry}
}

func (s *exportService) Export(ctx context.Context, id string) (*ExportResult, error) {
	rec, ok := s.registry.Get(ctx, id)
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, repository.ErrNotFound)
	}
	data, err := importer.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record %s: %w", id, err)
	}
	return &ExportResult{
		FileName: domain.ExportFileName(rec.Name),
		Data:     data,
		Record:   rec,
	}, nil
}

func (s *exportService) ExportToDir(ctx context.Context, id, dir string) (string, error) {
	res, err := s.Export(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, res.FileName)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}
