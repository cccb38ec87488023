package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/proxycache"
)

type Options struct {
	// Sampling to avoid floods on the hot read path; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks logs hook events through slog. Hit/Miss are sampled; failures
// are always logged.
type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ proxycache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(variant, key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("proxycache.hit",
		"variant", variant,
		"key", h.redact(key))
}

func (h *Hooks) Miss(variant, key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("proxycache.miss",
		"variant", variant,
		"key", h.redact(key))
}

func (h *Hooks) ConnFailure(upstream string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("proxycache.conn_failure",
		"upstream", upstream,
		"err", err)
}

func (h *Hooks) CommandError(variant, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("proxycache.command_error",
		"variant", variant,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) WriteError(variant, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("proxycache.write_error",
		"variant", variant,
		"key", h.redact(key),
		"err", err)
}
