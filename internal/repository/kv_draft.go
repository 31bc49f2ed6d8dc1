package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/kvstore"
)

// KVDraftSlotRepo implements DraftSlotRepo as one JSON record under DraftKey.
type KVDraftSlotRepo struct {
	store kvstore.Store
}

// NewKVDraftSlotRepo creates a new KVDraftSlotRepo.
func NewKVDraftSlotRepo(store kvstore.Store) *KVDraftSlotRepo {
	return &KVDraftSlotRepo{store: store}
}

func (r *KVDraftSlotRepo) Load(ctx context.Context) (domain.Record, error) {
	raw, ok, err := r.store.Get(ctx, DraftKey)
	if err != nil {
		return domain.Record{}, fmt.Errorf("loading draft slot: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return domain.Record{}, fmt.Errorf("draft slot: %w", ErrNotFound)
	}
	var rec domain.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("decoding draft slot: %w", err)
	}
	return rec, nil
}

func (r *KVDraftSlotRepo) Save(ctx context.Context, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := r.store.Set(ctx, DraftKey, string(data)); err != nil {
		return fmt.Errorf("saving draft slot: %w", err)
	}
	return nil
}

func (r *KVDraftSlotRepo) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, DraftKey); err != nil {
		return fmt.Errorf("clearing draft slot: %w", err)
	}
	return nil
}
