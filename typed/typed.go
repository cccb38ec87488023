// Package typed wraps a proxycache.Store with a codec so callers can
// cache structured values instead of raw strings. The underlying store
// keeps its degrade-to-miss contract: a payload that fails to decode is
// reported as a miss, never as an error.
package typed

import (
	"context"

	"github.com/unkn0wn-root/proxycache"
	"github.com/unkn0wn-root/proxycache/codec"
)

// Store caches values of type V through an underlying string store.
type Store[V any] struct {
	inner proxycache.Store
	codec codec.Codec[V]
}

// New wraps inner with c. Both must be non-nil.
func New[V any](inner proxycache.Store, c codec.Codec[V]) Store[V] {
	return Store[V]{inner: inner, codec: c}
}

func (s Store[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, ok := s.inner.Get(ctx, key)
	if !ok {
		return zero, false
	}
	v, err := s.codec.Decode([]byte(raw))
	if err != nil {
		// corrupt payload reads as a miss; the next Put overwrites it
		return zero, false
	}
	return v, true
}

func (s Store[V]) Put(ctx context.Context, key string, v V) bool {
	b, err := s.codec.Encode(v)
	if err != nil {
		return false
	}
	return s.inner.Put(ctx, key, string(b))
}

func (s Store[V]) Evict(ctx context.Context, key string) bool {
	return s.inner.Evict(ctx, key)
}

func (s Store[V]) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
