package proxycache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/proxycache/upstream"
)

// conns resolves upstream configs into pinned, authenticated connections
// and returns them to a bounded idle pool on release.
//
// One go-redis client is kept per (upstream, endpoint, credential ref);
// the client owns the idle pool, so connections survive across calls
// while endpoints stay healthy. Passwords are looked up through the
// secret resolver on every new physical connection, which makes
// credential rotation effective without a restart.
type conns struct {
	resolver upstream.Resolver
	secrets  SecretFunc
	log      Logger
	hooks    Hooks

	connectTimeout time.Duration
	poolSize       int
	idleTimeout    time.Duration

	mu      sync.Mutex
	clients map[string]*redis.Client
}

func newConns(resolver upstream.Resolver, secrets SecretFunc, log Logger, hooks Hooks,
	connectTimeout time.Duration, poolSize int, idleTimeout time.Duration) *conns {
	return &conns{
		resolver:       resolver,
		secrets:        secrets,
		log:            log,
		hooks:          hooks,
		connectTimeout: connectTimeout,
		poolSize:       poolSize,
		idleTimeout:    idleTimeout,
		clients:        make(map[string]*redis.Client),
	}
}

// acquire resolves cfg to a healthy endpoint and pins one pooled
// connection to it, forcing dial and AUTH up front with a PING. Every
// failure mode (no healthy endpoint, dial error, AUTH rejection) is
// absorbed here: callers only ever observe ok=false.
func (c *conns) acquire(ctx context.Context, cfg upstream.Config) (*redis.Conn, bool) {
	ep, ok := c.resolver.ResolveHealthy(cfg.Name)
	if !ok {
		fail := &ConnFailure{Upstream: cfg.Name, Err: ErrNoHealthyUpstream}
		c.log.Warn("upstream resolution failed", Fields{"upstream": cfg.Name})
		c.hooks.ConnFailure(cfg.Name, fail)
		return nil, false
	}

	cn := c.client(cfg, ep).Conn()

	pingCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	err := cn.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		// the pinned conn still goes back to the pool; go-redis discards
		// it there if the underlying socket is broken
		_ = cn.Close()
		fail := &ConnFailure{Upstream: cfg.Name, Addr: ep.Addr(), Err: err}
		c.log.Warn("upstream connect failed", Fields{"upstream": cfg.Name, "addr": ep.Addr(), "err": err})
		c.hooks.ConnFailure(cfg.Name, fail)
		return nil, false
	}

	return cn, true
}

// release returns a pinned connection to its client's idle pool. It must
// be called exactly once for every successful acquire, on every exit path.
func (c *conns) release(cn *redis.Conn) {
	if cn == nil {
		return
	}
	if err := cn.Close(); err != nil {
		c.log.Warn("connection release failed", Fields{"err": err})
	}
}

func (c *conns) client(cfg upstream.Config, ep upstream.Endpoint) *redis.Client {
	key := cfg.Name + "|" + ep.Addr() + "|" + cfg.CredentialRef

	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[key]; ok {
		return cl
	}

	opts := &redis.Options{
		Addr:            ep.Addr(),
		DialTimeout:     c.connectTimeout,
		ReadTimeout:     c.connectTimeout,
		WriteTimeout:    c.connectTimeout,
		PoolSize:        c.poolSize,
		ConnMaxIdleTime: c.idleTimeout,
	}
	if cfg.CredentialRef != "" {
		ref := cfg.CredentialRef
		secrets := c.secrets
		// empty password skips the AUTH step entirely
		opts.CredentialsProvider = func() (string, string) {
			return "", secrets(ref)
		}
	}

	cl := redis.NewClient(opts)
	c.clients[key] = cl
	return cl
}

// idleStats reports pool occupancy across all cached clients.
func (c *conns) idleStats() (total, idle uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cl := range c.clients {
		st := cl.PoolStats()
		total += st.TotalConns
		idle += st.IdleConns
	}
	return total, idle
}

// Close tears down all cached clients and their pools.
func (c *conns) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	for key, cl := range c.clients {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.clients, key)
	}
	return first
}
