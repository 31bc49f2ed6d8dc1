package kvstore

import "context"

// PrefixedStore scopes every key of an underlying Store to one application
// origin.
type PrefixedStore struct {
	inner  Store
	prefix string
}

// Prefixed returns inner scoped to prefix. An empty prefix returns inner.
func Prefixed(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &PrefixedStore{inner: inner, prefix: prefix}
}

func (s *PrefixedStore) key(k string) string { return s.prefix + ":" + k }

func (s *PrefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *PrefixedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *PrefixedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.key(key))
}
