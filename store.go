package proxycache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/proxycache/upstream"
)

type store struct {
	variant Variant
	conns   *conns
	ttl     TTLPolicy
	log     Logger
	hooks   Hooks

	readCfg  upstream.Config
	writeCfg upstream.Config

	enabled bool
}

func newStore(opts Options) (*store, error) {
	if opts.Variant == nil {
		return nil, fmt.Errorf("proxycache: variant is required")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("proxycache: resolver is required")
	}

	s := &store{
		variant:  opts.Variant,
		readCfg:  opts.ReadUpstream,
		writeCfg: opts.WriteUpstream,
		enabled:  !opts.Disabled,
	}

	// defaults
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.TTLPolicy != nil {
		s.ttl = opts.TTLPolicy
	} else {
		s.ttl = ConstantTTL(NoExpiry)
	}

	secrets := opts.Secrets
	if secrets == nil {
		secrets = EnvSecrets
	}

	s.conns = newConns(
		opts.Resolver,
		secrets,
		s.log,
		s.hooks,
		coalesce(opts.ConnectTimeout, defaultConnectTimeout),
		coalesce(opts.PoolSize, defaultPoolSize),
		coalesce(opts.IdleTimeout, defaultIdleTimeout),
	)

	return s, nil
}

func (s *store) Close(ctx context.Context) error {
	return s.conns.Close(ctx)
}

func (s *store) Get(ctx context.Context, key string) (string, bool) {
	if !s.enabled {
		return "", false
	}

	cn, ok := s.conns.acquire(ctx, s.readConfig())
	if !ok {
		// no connection reads exactly like a miss
		s.hooks.Miss(s.variant.Name(), key)
		return "", false
	}
	defer s.conns.release(cn)

	val, err := s.variant.Get(ctx, cn, key)
	if err == redis.Nil {
		s.log.Debug("cache miss", Fields{"variant": s.variant.Name(), "key": key})
		s.hooks.Miss(s.variant.Name(), key)
		return "", false
	}
	if err != nil {
		s.log.Warn("cache get failed, treating as miss", Fields{"variant": s.variant.Name(), "key": key, "err": err})
		s.hooks.CommandError(s.variant.Name(), key, err)
		s.hooks.Miss(s.variant.Name(), key)
		return "", false
	}

	s.log.Debug("cache hit", Fields{"variant": s.variant.Name(), "key": key})
	s.hooks.Hit(s.variant.Name(), key)
	return val, true
}

func (s *store) Put(ctx context.Context, key, value string) bool {
	if !s.enabled {
		return false
	}

	ttl := s.ttl(key, value)
	if ttl == 0 {
		// 0 is neither "no expiry" nor "expire now"; require the explicit
		// NoExpiry sentinel instead of guessing
		s.log.Error("ttl policy returned 0, rejecting put", Fields{"variant": s.variant.Name(), "key": key})
		return false
	}

	cn, ok := s.conns.acquire(ctx, s.writeConfig())
	if !ok {
		return false
	}
	defer s.conns.release(cn)

	_, err := cn.Pipelined(ctx, func(p redis.Pipeliner) error {
		s.variant.Put(ctx, p, key, value)
		if ttl > 0 {
			p.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("cache put failed", Fields{"variant": s.variant.Name(), "key": key, "err": err})
		s.hooks.WriteError(s.variant.Name(), key, err)
		return false
	}

	s.log.Debug("cache put", Fields{"variant": s.variant.Name(), "key": key, "ttl": ttl})
	return true
}

func (s *store) Evict(ctx context.Context, key string) bool {
	if !s.enabled {
		return false
	}
	if key == "" {
		s.log.Debug("evict skipped for empty key", Fields{"variant": s.variant.Name()})
		return true
	}

	cn, ok := s.conns.acquire(ctx, s.writeConfig())
	if !ok {
		return false
	}
	defer s.conns.release(cn)

	_, err := cn.Pipelined(ctx, func(p redis.Pipeliner) error {
		s.variant.Del(ctx, p, key)
		return nil
	})
	if err != nil {
		s.log.Warn("cache evict failed", Fields{"variant": s.variant.Name(), "key": key, "err": err})
		s.hooks.WriteError(s.variant.Name(), key, err)
		return false
	}

	s.log.Debug("cache evict", Fields{"variant": s.variant.Name(), "key": key})
	return true
}

// readConfig and writeConfig build the effective per-call upstream
// configs, falling back to the well-known pool names.
func (s *store) readConfig() upstream.Config {
	cfg := s.readCfg
	cfg.Name = coalesce(cfg.Name, DefaultReadUpstream)
	return cfg
}

func (s *store) writeConfig() upstream.Config {
	cfg := s.writeCfg
	cfg.Name = coalesce(cfg.Name, DefaultWriteUpstream)
	return cfg
}
