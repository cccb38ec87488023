// Package health provides a TCP health-checked implementation of
// upstream.Resolver. Each member of a named pool is probed on its own
// interval; ResolveHealthy hands out healthy members round-robin.
package health

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/unkn0wn-root/proxycache/upstream"
)

// Status represents the health of one pool member.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// CheckResult is a snapshot of one member's most recent probe.
type CheckResult struct {
	Endpoint  upstream.Endpoint
	Status    Status
	Latency   time.Duration
	Error     error
	Timestamp time.Time
}

// Config holds checker-wide defaults.
type Config struct {
	Timeout  time.Duration // TCP dial timeout per probe; default 2s
	Interval time.Duration // probe interval per member; default 10s

	// Consecutive probe outcomes needed to flip state.
	HealthyAfter   int // default 1
	UnhealthyAfter int // default 3

	// OnChange is invoked (on its own goroutine) whenever a member
	// transitions between statuses.
	OnChange func(pool string, ep upstream.Endpoint, status Status)
}

// Checker probes pool members over TCP and resolves names to healthy
// endpoints. Implements upstream.Resolver.
type Checker struct {
	mu      sync.RWMutex
	pools   map[string]*pool
	started bool
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
}

type pool struct {
	members []*memberState
	next    int // round-robin cursor over healthy members
}

type memberState struct {
	ep              upstream.Endpoint
	status          Status
	lastCheck       time.Time
	lastError       error
	latency         time.Duration
	consecutivePass int
	consecutiveFail int
}

var _ upstream.Resolver = (*Checker)(nil)

// NewChecker creates a checker with the given defaults applied.
func NewChecker(cfg Config) *Checker {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.HealthyAfter == 0 {
		cfg.HealthyAfter = 1
	}
	if cfg.UnhealthyAfter == 0 {
		cfg.UnhealthyAfter = 3
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Checker{
		pools:  make(map[string]*pool),
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddUpstream registers the members of a named pool. Members start out
// StatusUnknown and become resolvable once probes pass. Calling
// AddUpstream again for the same name replaces the member list; loops
// probing replaced members retire themselves on their next tick.
// AddUpstream may be called before or after Start: once the checker is
// started, new members get probe loops immediately.
func (c *Checker) AddUpstream(name string, endpoints ...upstream.Endpoint) {
	members := make([]*memberState, len(endpoints))
	for i, ep := range endpoints {
		members[i] = &memberState{ep: ep, status: StatusUnknown}
	}

	c.mu.Lock()
	c.pools[name] = &pool{members: members}
	started := c.started
	c.mu.Unlock()

	if started {
		for _, m := range members {
			go c.checkLoop(name, m)
		}
	}
}

// Start launches a probe loop per registered member. Each loop performs
// an immediate first probe, then ticks on the configured interval.
// Calling Start again is a no-op; members added after Start are picked
// up by AddUpstream itself.
func (c *Checker) Start() {
	type loop struct {
		name string
		m    *memberState
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	var loops []loop
	for name, p := range c.pools {
		for _, m := range p.members {
			loops = append(loops, loop{name: name, m: m})
		}
	}
	c.mu.Unlock()

	for _, l := range loops {
		go c.checkLoop(l.name, l.m)
	}
}

// Stop cancels all probe loops.
func (c *Checker) Stop() {
	c.cancel()
}

// ResolveHealthy returns the next healthy member of the named pool,
// rotating through healthy members across calls.
func (c *Checker) ResolveHealthy(name string) (upstream.Endpoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pools[name]
	if !ok || len(p.members) == 0 {
		return upstream.Endpoint{}, false
	}

	n := len(p.members)
	for i := 0; i < n; i++ {
		m := p.members[(p.next+i)%n]
		if m.status == StatusHealthy {
			p.next = (p.next + i + 1) % n
			return m.ep, true
		}
	}
	return upstream.Endpoint{}, false
}

// Snapshot returns the latest probe results for one pool.
func (c *Checker) Snapshot(name string) []CheckResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.pools[name]
	if !ok {
		return nil
	}
	out := make([]CheckResult, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, CheckResult{
			Endpoint:  m.ep,
			Status:    m.status,
			Latency:   m.latency,
			Error:     m.lastError,
			Timestamp: m.lastCheck,
		})
	}
	return out
}

// CheckNow probes one member immediately, outside its loop schedule.
func (c *Checker) CheckNow(name string, ep upstream.Endpoint) {
	c.mu.RLock()
	var m *memberState
	if p, ok := c.pools[name]; ok {
		for _, cand := range p.members {
			if cand.ep == ep {
				m = cand
				break
			}
		}
	}
	c.mu.RUnlock()

	if m != nil {
		c.check(name, m)
	}
}

// checkLoop probes one member until the checker stops or the member is
// replaced by a newer AddUpstream call. Binding the loop to the state
// object (not the endpoint) keeps a replace-then-readd from ever
// running two loops against the same member.
func (c *Checker) checkLoop(name string, m *memberState) {
	c.check(name, m)

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.current(name, m) {
				return
			}
			c.check(name, m)
		}
	}
}

func (c *Checker) current(name string, m *memberState) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pools[name]
	if !ok {
		return false
	}
	for _, cand := range p.members {
		if cand == m {
			return true
		}
	}
	return false
}

func (c *Checker) check(name string, m *memberState) {
	start := time.Now()
	conn, err := net.DialTimeout("tcp", m.ep.Addr(), c.cfg.Timeout)
	latency := time.Since(start)

	if err == nil {
		conn.Close()
	}
	c.updateStatus(name, m, err == nil, latency, err)
}

func (c *Checker) updateStatus(name string, m *memberState, healthy bool, latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m.lastCheck = time.Now()
	m.lastError = err
	m.latency = latency

	old := m.status

	if healthy {
		m.consecutiveFail = 0
		m.consecutivePass++
		if m.consecutivePass >= c.cfg.HealthyAfter {
			m.status = StatusHealthy
		}
	} else {
		m.consecutivePass = 0
		m.consecutiveFail++
		if m.consecutiveFail >= c.cfg.UnhealthyAfter {
			m.status = StatusUnhealthy
		}
	}

	if old != m.status && c.cfg.OnChange != nil {
		go c.cfg.OnChange(name, m.ep, m.status)
	}
}
