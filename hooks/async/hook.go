// Package asynchook decouples hook consumers from the cache hot path.
// Events are queued and delivered by worker goroutines; when the queue
// is full, events are dropped rather than blocking a cache call.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:  100, // sample hot-path logs: ~every 100th hit
//	    MissEvery: 10,
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	store, _ := proxycache.New(proxycache.Options{
//	    Variant:  proxycache.StringVariant{},
//	    Resolver: checker,
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/proxycache"
)

type Hooks struct {
	inner proxycache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ proxycache.Hooks = (*Hooks)(nil)

func New(inner proxycache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(v, k string)  { h.try(func() { h.inner.Hit(v, k) }) }
func (h *Hooks) Miss(v, k string) { h.try(func() { h.inner.Miss(v, k) }) }
func (h *Hooks) ConnFailure(u string, err error) {
	h.try(func() { h.inner.ConnFailure(u, err) })
}
func (h *Hooks) CommandError(v, k string, err error) {
	h.try(func() { h.inner.CommandError(v, k, err) })
}
func (h *Hooks) WriteError(v, k string, err error) {
	h.try(func() { h.inner.WriteError(v, k, err) })
}
