// Package metrics exposes the prometheus counters of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	adminRateLimited  prometheus.Counter
	loginThrottled    prometheus.Counter
	auditEvents       *prometheus.CounterVec
	auditSinkFailures *prometheus.CounterVec
	catalogMutations  *prometheus.CounterVec
	watchlistChanges  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		adminRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movieflix_admin_rate_limited_total",
			Help: "Admin requests rejected by the sliding window limiter.",
		}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movieflix_login_throttled_total",
			Help: "Login attempts rejected by the per-IP throttle.",
		}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_audit_events_total",
			Help: "Audit records emitted, by action.",
		}, []string{"action"}),
		auditSinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_audit_sink_failures_total",
			Help: "Audit records a sink failed to store, by sink.",
		}, []string{"sink"}),
		catalogMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_catalog_mutations_total",
			Help: "Successful catalog writes, by operation.",
		}, []string{"op"}),
		watchlistChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movieflix_watchlist_changes_total",
			Help: "Successful watchlist writes, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.adminRateLimited,
		c.loginThrottled,
		c.auditEvents,
		c.auditSinkFailures,
		c.catalogMutations,
		c.watchlistChanges,
	)

	return c
}

func (c *Collector) RecordAdminRateLimited() {
	c.adminRateLimited.Inc()
}

func (c *Collector) RecordLoginThrottled() {
	c.loginThrottled.Inc()
}

func (c *Collector) RecordAuditEvent(action string) {
	c.auditEvents.WithLabelValues(action).Inc()
}

func (c *Collector) RecordAuditSinkFailure(sink string) {
	c.auditSinkFailures.WithLabelValues(sink).Inc()
}

// RecordCatalogMutation counts create, update and delete on the catalog.
func (c *Collector) RecordCatalogMutation(op string) {
	c.catalogMutations.WithLabelValues(op).Inc()
}

func (c *Collector) RecordWatchlistChange(op string) {
	c.watchlistChanges.WithLabelValues(op).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
