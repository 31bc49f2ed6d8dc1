package testutil

import (
	"context"
	"sync/atomic"

	"github.com/alexanderramin/formdraft/internal/kvstore"
)

// FailOnNthSetStore wraps a Store and injects Err on the Nth Set call.
// Set calls are counted starting at 1. FailOn <= 0 fails every Set.
// Get and Remove pass through.
type FailOnNthSetStore struct {
	kvstore.Store
	FailOn int32
	Err    error

	count atomic.Int32
}

func (f *FailOnNthSetStore) Set(ctx context.Context, key, value string) error {
	n := f.count.Add(1)
	if f.FailOn <= 0 || n == f.FailOn {
		return f.Err
	}
	return f.Store.Set(ctx, key, value)
}

// Sets reports how many Set calls were made.
func (f *FailOnNthSetStore) Sets() int {
	return int(f.count.Load())
}
