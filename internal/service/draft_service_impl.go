package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/formdraft/internal/domain"
)

type draftService struct {
	e *Engine
}

func NewDraftService(e *Engine) DraftService {
	return &draftService{e: e}
}

func (s *draftService) SaveDraft(ctx context.Context, data domain.FormData, name string) (rec domain.Record, wrote bool) {
	u := s.e.begin(ctx, "save-draft")
	defer func() {
		u.fields["id"] = rec.ID
		u.fields["wrote"] = wrote
		u.end()
	}()

	cur := s.e.draft
	data = data.Clone()
	meaningful := domain.IsMeaningful(data)

	candName := strings.TrimSpace(name)
	if candName == "" {
		if cur != nil {
			candName = cur.Name
		} else {
			candName = domain.DefaultDraftName
		}
	}

	if cur != nil && cur.Name == candName && domain.FormDataEqual(cur.FormData, data) {
		mirrored := !cur.ClonedCopy && s.e.mirrors(*cur)
		if mirrored || !meaningful {
			return cur.Clone(), false
		}
	}
	// Without content, only a user-given title opens a draft, and only in the slot.
	if cur == nil && !meaningful && candName == domain.DefaultDraftName {
		return domain.Record{}, false
	}

	now := s.e.nowUTC()
	rec = domain.Record{
		Name:     candName,
		FormData: data,
		Status:   domain.StatusDraft,
	}
	if cur == nil {
		rec.ID = s.e.newID()
		rec.Timestamp = now
	} else {
		rec.ID = cur.ID
		rec.ClonedCopy = cur.ClonedCopy
		rec.Timestamp = now
		if cur.Timestamp.After(now) {
			rec.Timestamp = cur.Timestamp
		}
	}

	if !meaningful {
		u.setDraft(rec)
		return rec.Clone(), true
	}

	if rec.ClonedCopy || s.e.frozen(rec.ID) {
		rec.ID = s.e.newID()
		rec.ClonedCopy = false
		rec.Timestamp = now
	}
	u.setDraft(rec)
	s.e.upsert(rec)
	u.publishList()
	return rec.Clone(), true
}

func (s *draftService) CurrentDraft(ctx context.Context) (domain.Record, bool) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	if s.e.draft == nil {
		return domain.Record{}, false
	}
	return s.e.draft.Clone(), true
}

func (s *draftService) ClearCurrentDraft(ctx context.Context) {
	u := s.e.begin(ctx, "clear-draft")
	defer u.end()
	u.clearDraft()
}

func (s *draftService) LoadSubmissionAsDraft(ctx context.Context, id string) (rec domain.Record, ok bool) {
	u := s.e.begin(ctx, "load-as-draft")
	defer func() {
		u.fields["source_id"] = id
		u.fields["draft_id"] = rec.ID
		u.end()
	}()

	i := s.e.indexOf(id)
	if i < 0 {
		return domain.Record{}, false
	}
	src := s.e.list[i]

	if src.IsDraft() {
		rec = src.Clone()
		u.fields["copied"] = false
	} else {
		rec = domain.Record{
			ID:         s.e.newID(),
			Name:       domain.CopyName(src.Name),
			Timestamp:  s.e.nowUTC(),
			FormData:   src.FormData.Clone(),
			Status:     domain.StatusDraft,
			ClonedCopy: true,
		}
		u.fields["copied"] = true
	}
	u.setDraft(rec)
	return rec, true
}

func (s *draftService) SubmitForm(ctx context.Context, data domain.FormData, name string) string {
	u := s.e.begin(ctx, "submit")
	defer u.end()

	if !domain.IsMeaningful(data) {
		u.fields["refused"] = true
		return ""
	}

	now := s.e.nowUTC()
	rec := domain.Record{
		ID:        s.e.newID(),
		Name:      domain.TrimmedOr(name, domain.DefaultSubmissionName(now)),
		Timestamp: now,
		FormData:  data.Clone(),
		Status:    domain.StatusSubmitted,
	}
	u.fields["id"] = rec.ID

	s.e.list = append(s.e.list, rec)
	u.publishList()
	u.clearDraft()
	return rec.ID
}

func (s *draftService) SaveAsTemplate(ctx context.Context, data domain.FormData, name string) string {
	u := s.e.begin(ctx, "save-template")
	defer u.end()

	if !domain.IsMeaningful(data) {
		u.fields["refused"] = true
		return ""
	}

	now := s.e.nowUTC()
	rec := domain.Record{
		ID:        s.e.newID(),
		Name:      domain.TrimmedOr(name, domain.DefaultTemplateName(now)),
		Timestamp: now,
		FormData:  data.Clone(),
		Status:    domain.StatusTemplate,
	}
	u.fields["id"] = rec.ID

	s.e.list = append(s.e.list, rec)
	u.publishList()
	return rec.ID
}
