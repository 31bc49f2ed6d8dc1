package repository

import (
	"context"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// Storage keys. Both live under the store's configured prefix.
const (
	SubmissionsKey = "onboarding_submissions"
	DraftKey       = "current_draft"
)

// SubmissionRepo persists the full registry list as one value.
type SubmissionRepo interface {
	// Load returns the stored list; an absent key yields an empty list.
	Load(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, list []domain.Record) error
}

// DraftSlotRepo persists the single current-draft slot.
type DraftSlotRepo interface {
	// Load returns ErrNotFound when the slot is empty.
	Load(ctx context.Context) (domain.Record, error)
	Save(ctx context.Context, rec domain.Record) error
	Clear(ctx context.Context) error
}
