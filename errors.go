package proxycache

import (
	"errors"
	"fmt"
)

// ErrNoHealthyUpstream is reported when the resolver has no live endpoint
// for the requested upstream pool.
var ErrNoHealthyUpstream = errors.New("proxycache: no healthy upstream endpoint")

// ConnFailure describes a failed connection attempt against one upstream.
// It is recovered locally (logged and surfaced through Hooks); Get/Put/Evict
// never return it to callers.
type ConnFailure struct {
	Upstream string
	Addr     string // empty when resolution itself failed
	Err      error
}

func (e *ConnFailure) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("upstream %q: %v", e.Upstream, e.Err)
	}
	return fmt.Sprintf("upstream %q (%s): %v", e.Upstream, e.Addr, e.Err)
}

func (e *ConnFailure) Unwrap() error { return e.Err }
