package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/kvstore"
)

// KVSubmissionRepo implements SubmissionRepo as a JSON array under
// SubmissionsKey.
type KVSubmissionRepo struct {
	store kvstore.Store
}

// NewKVSubmissionRepo creates a new KVSubmissionRepo.
func NewKVSubmissionRepo(store kvstore.Store) *KVSubmissionRepo {
	return &KVSubmissionRepo{store: store}
}

func (r *KVSubmissionRepo) Load(ctx context.Context) ([]domain.Record, error) {
	raw, ok, err := r.store.Get(ctx, SubmissionsKey)
	if err != nil {
		return nil, fmt.Errorf("loading submissions: %w", err)
	}
	if !ok || raw == "" {
		return []domain.Record{}, nil
	}
	var list []domain.Record
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decoding submissions: %w", err)
	}
	if list == nil {
		list = []domain.Record{}
	}
	return list, nil
}

func (r *KVSubmissionRepo) Save(ctx context.Context, list []domain.Record) error {
	if list == nil {
		list = []domain.Record{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding submissions: %w", err)
	}
	if err := r.store.Set(ctx, SubmissionsKey, string(data)); err != nil {
		return fmt.Errorf("saving submissions: %w", err)
	}
	return nil
}
