package proxycache

import (
	"context"
	"os"
	"time"

	"github.com/unkn0wn-root/proxycache/upstream"
)

// Well-known default upstream pool names. Reads go to the replica pool,
// writes and evictions to the primary pool, unless Options overrides them.
const (
	DefaultWriteUpstream = "redis-primary"
	DefaultReadUpstream  = "redis-replica"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultPoolSize       = 100
	defaultIdleTimeout    = 30 * time.Second
)

// SecretFunc resolves a credential reference (e.g. an environment
// variable name) to the secret it names. Empty result means "no secret".
type SecretFunc func(name string) string

// EnvSecrets resolves credential references from the process environment.
func EnvSecrets(name string) string {
	v, _ := os.LookupEnv(name)
	return v
}

// Store is the caller-facing cache API. A failure anywhere below this
// surface degrades to miss (Get) or false (Put/Evict); it is never
// returned as an error, so the serving path stays up when the cache
// backend is down.
type Store interface {
	// Get returns (value, true) on hit. "No connection", "key absent"
	// and "command failed" are all reported identically as ("", false).
	Get(ctx context.Context, key string) (string, bool)

	// Put writes value under key with the TTL the policy computes,
	// as one pipelined batch. Returns true only when the batch committed.
	Put(ctx context.Context, key, value string) bool

	// Evict removes key. An empty key is a logged no-op, not an error.
	Evict(ctx context.Context, key string) bool

	// Close releases all pooled connections.
	Close(ctx context.Context) error
}

// Options tune a Store at construction time.
// Only Variant and Resolver are required; others have sensible defaults.
type Options struct {
	// Required
	Variant  Variant
	Resolver upstream.Resolver

	TTLPolicy     TTLPolicy       // nil => NoExpiry for every entry
	ReadUpstream  upstream.Config // empty Name => DefaultReadUpstream
	WriteUpstream upstream.Config // empty Name => DefaultWriteUpstream

	Secrets        SecretFunc    // nil => EnvSecrets
	Logger         Logger        // nil => NopLogger
	Hooks          Hooks         // nil => NopHooks
	ConnectTimeout time.Duration // per connect/command; 0 => 5s
	PoolSize       int           // idle pool capacity per endpoint; 0 => 100
	IdleTimeout    time.Duration // idle connection lifetime; 0 => 30s
	Disabled       bool          // default false (enabled)
}

func New(opts Options) (Store, error) {
	return newStore(opts)
}
