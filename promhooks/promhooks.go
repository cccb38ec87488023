// Package promhooks exports proxycache hook events as Prometheus
// counters, labeled by variant or upstream.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/proxycache"
)

type Hooks struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	connFailures  *prometheus.CounterVec
	commandErrors *prometheus.CounterVec
	writeErrors   *prometheus.CounterVec
}

var _ proxycache.Hooks = (*Hooks)(nil)

// New registers the proxycache counters with reg and returns hooks
// feeding them. Pass prometheus.DefaultRegisterer for the global registry.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proxycache_hits_total",
			Help: "Cache reads that found a value.",
		}, []string{"variant"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proxycache_misses_total",
			Help: "Cache reads that missed, including degraded failures.",
		}, []string{"variant"}),
		connFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proxycache_conn_failures_total",
			Help: "Connection acquisitions that failed (resolution, dial, or auth).",
		}, []string{"upstream"}),
		commandErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proxycache_command_errors_total",
			Help: "Get commands that failed at the protocol level.",
		}, []string{"variant"}),
		writeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proxycache_write_errors_total",
			Help: "Pipelined put/evict batches that failed to commit.",
		}, []string{"variant"}),
	}
}

func (h *Hooks) Hit(variant, _ string)  { h.hits.WithLabelValues(variant).Inc() }
func (h *Hooks) Miss(variant, _ string) { h.misses.WithLabelValues(variant).Inc() }

func (h *Hooks) ConnFailure(upstream string, _ error) {
	h.connFailures.WithLabelValues(upstream).Inc()
}

func (h *Hooks) CommandError(variant, _ string, _ error) {
	h.commandErrors.WithLabelValues(variant).Inc()
}

func (h *Hooks) WriteError(variant, _ string, _ error) {
	h.writeErrors.WithLabelValues(variant).Inc()
}
