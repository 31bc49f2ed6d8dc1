package service

import (
	"context"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// RegistryService exposes the submission registry: every draft, submission
// and template the user has kept.
type RegistryService interface {
	List(ctx context.Context) []domain.Record
	ListByStatus(ctx context.Context, status domain.RecordStatus) []domain.Record
	Get(ctx context.Context, id string) (domain.Record, bool)
	// Upsert replaces the record with the same id or appends it. Records
	// without meaningful form data are refused and false is returned, as is
	// any change of status over a submitted or template record.
	Upsert(ctx context.Context, rec domain.Record) bool
	// Delete removes id from the registry and clears the draft slot when id
	// is the current draft. False when nothing matched.
	Delete(ctx context.Context, id string) bool
	// HasTemplateFor reports whether a template with rec's name or form data
	// already exists.
	HasTemplateFor(ctx context.Context, rec domain.Record) bool
}

// DraftService drives the single current-draft slot.
type DraftService interface {
	// SaveDraft stores data as the current draft and reports whether
	// anything was written.
	SaveDraft(ctx context.Context, data domain.FormData, name string) (domain.Record, bool)
	CurrentDraft(ctx context.Context) (domain.Record, bool)
	ClearCurrentDraft(ctx context.Context)
	// LoadSubmissionAsDraft makes id the current draft. Drafts are edited in
	// place; submissions and templates are cloned into a new draft.
	LoadSubmissionAsDraft(ctx context.Context, id string) (domain.Record, bool)
	// SubmitForm and SaveAsTemplate return the new record's id, or "" when
	// data has no meaningful content and nothing was written.
	SubmitForm(ctx context.Context, data domain.FormData, name string) string
	SaveAsTemplate(ctx context.Context, data domain.FormData, name string) string
}

// ImportService adds exported record files back into the registry.
type ImportService interface {
	Import(ctx context.Context, data []byte) (domain.Record, error)
	ImportFile(ctx context.Context, path string) (domain.Record, error)
}

// ExportService renders registry records as downloadable JSON files.
type ExportService interface {
	Export(ctx context.Context, id string) (*ExportResult, error)
	ExportToDir(ctx context.Context, id, dir string) (string, error)
}

// ExportResult is one rendered record file.
type ExportResult struct {
	FileName string
	Data     []byte
	Record   domain.Record
}
