// Package kvstore provides the string key-value persistence the engine writes
// its registry and draft slot into.
package kvstore

//go:generate mockgen -source=store.go -destination=mock/mock_store.go -package=mock

import "context"

// Store is a durable string-to-string map. Implementations return errors for
// unavailable storage; they never panic.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
