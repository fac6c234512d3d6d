package store

import (
	"context"

	corestore "cosmossdk.io/collections/corecompat"
)

type contextKey struct{}

// WithKVStore binds kv to ctx. Keepers opened through a Service read and write
// the bound store for the lifetime of ctx.
func WithKVStore(ctx context.Context, kv corestore.KVStore) context.Context {
	return context.WithValue(ctx, contextKey{}, kv)
}

// KVStoreFromContext returns the store bound to ctx, if any.
func KVStoreFromContext(ctx context.Context) (corestore.KVStore, bool) {
	kv, ok := ctx.Value(contextKey{}).(corestore.KVStore)
	return kv, ok && kv != nil
}

var _ corestore.KVStoreService = Service{}

// Service hands keepers the store bound to the request context, falling back
// to the committed store for read-only callers that did not bind one.
type Service struct {
	committed corestore.KVStore
}

func NewService(committed corestore.KVStore) Service {
	if committed == nil {
		panic("store service: committed store is nil")
	}
	return Service{committed: committed}
}

func (s Service) OpenKVStore(ctx context.Context) corestore.KVStore {
	if kv, ok := KVStoreFromContext(ctx); ok {
		return kv
	}
	return s.committed
}
