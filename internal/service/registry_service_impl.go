package service

import (
	"context"

	"github.com/alexanderramin/formdraft/internal/domain"
)

type registryService struct {
	e *Engine
}

func NewRegistryService(e *Engine) RegistryService {
	return &registryService{e: e}
}

func (s *registryService) List(ctx context.Context) []domain.Record {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return cloneList(s.e.list)
}

func (s *registryService) ListByStatus(ctx context.Context, status domain.RecordStatus) []domain.Record {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	out := make([]domain.Record, 0, len(s.e.list))
	for _, r := range s.e.list {
		if r.Status == status {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *registryService) Get(ctx context.Context, id string) (domain.Record, bool) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	if i := s.e.indexOf(id); i >= 0 {
		return s.e.list[i].Clone(), true
	}
	return domain.Record{}, false
}

func (s *registryService) Upsert(ctx context.Context, rec domain.Record) bool {
	u := s.e.begin(ctx, "upsert")
	defer u.end()
	u.fields["id"] = rec.ID

	if rec.ID == "" || !domain.IsMeaningful(rec.FormData) {
		u.fields["refused"] = true
		return false
	}
	if i := s.e.indexOf(rec.ID); i >= 0 && !s.e.list[i].IsDraft() && s.e.list[i].Status != rec.Status {
		u.fields["refused"] = true
		return false
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.e.nowUTC()
	}
	s.e.upsert(rec)
	u.publishList()
	return true
}

func (s *registryService) Delete(ctx context.Context, id string) bool {
	u := s.e.begin(ctx, "delete")
	defer u.end()
	u.fields["id"] = id

	i := s.e.indexOf(id)
	if i < 0 {
		u.fields["found"] = false
		return false
	}
	s.e.list = append(s.e.list[:i:i], s.e.list[i+1:]...)
	u.publishList()

	if s.e.draft != nil && s.e.draft.ID == id {
		u.clearDraft()
		u.fields["draft_cleared"] = true
	}
	return true
}

func (s *registryService) HasTemplateFor(ctx context.Context, rec domain.Record) bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	for _, r := range s.e.list {
		if r.Status != domain.StatusTemplate || r.ID == rec.ID {
			continue
		}
		if r.Name == rec.Name || domain.FormDataEqual(r.FormData, rec.FormData) {
			return true
		}
	}
	return false
}
