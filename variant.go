package proxycache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Variant supplies the wire-level command shape for one storage encoding.
// The orchestrator owns connections, pipelining, and expiry; a Variant
// only decides which commands represent get/put/delete for its encoding.
//
// Get must return redis.Nil when the key is absent so the orchestrator
// can distinguish a miss from a protocol error. Put and Del only queue
// commands on the pipeline; they never execute anything themselves.
type Variant interface {
	// Name identifies the variant in logs and hook events.
	Name() string

	Get(ctx context.Context, c redis.Cmdable, key string) (string, error)
	Put(ctx context.Context, p redis.Pipeliner, key, value string)
	Del(ctx context.Context, p redis.Pipeliner, key string)
}

// StringVariant stores each value under its own plain key (GET/SET/DEL).
type StringVariant struct{}

var _ Variant = StringVariant{}

func (StringVariant) Name() string { return "string" }

func (StringVariant) Get(ctx context.Context, c redis.Cmdable, key string) (string, error) {
	return c.Get(ctx, key).Result()
}

func (StringVariant) Put(ctx context.Context, p redis.Pipeliner, key, value string) {
	p.Set(ctx, key, value, 0)
}

func (StringVariant) Del(ctx context.Context, p redis.Pipeliner, key string) {
	p.Del(ctx, key)
}

// HashVariant stores each value as one field of a hash at the cache key
// (HGET/HSET/HDEL). The field name is fixed per store.
type HashVariant struct {
	// Field is the hash field holding the payload; "value" when empty.
	Field string
}

var _ Variant = HashVariant{}

func (HashVariant) Name() string { return "hash" }

func (v HashVariant) field() string {
	if v.Field == "" {
		return "value"
	}
	return v.Field
}

func (v HashVariant) Get(ctx context.Context, c redis.Cmdable, key string) (string, error) {
	return c.HGet(ctx, key, v.field()).Result()
}

func (v HashVariant) Put(ctx context.Context, p redis.Pipeliner, key, value string) {
	p.HSet(ctx, key, v.field(), value)
}

func (v HashVariant) Del(ctx context.Context, p redis.Pipeliner, key string) {
	p.HDel(ctx, key, v.field())
}

// SetVariant stores values as members of a set at the cache key
// (SRANDMEMBER/SADD). Evict carries no member, so Del removes the whole
// set key.
type SetVariant struct{}

var _ Variant = SetVariant{}

func (SetVariant) Name() string { return "set" }

func (SetVariant) Get(ctx context.Context, c redis.Cmdable, key string) (string, error) {
	return c.SRandMember(ctx, key).Result()
}

func (SetVariant) Put(ctx context.Context, p redis.Pipeliner, key, value string) {
	p.SAdd(ctx, key, value)
}

func (SetVariant) Del(ctx context.Context, p redis.Pipeliner, key string) {
	p.Del(ctx, key)
}
