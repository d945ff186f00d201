// Package metrics exposes Prometheus counters for equipment lifecycle events.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "equiptrack"

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	created       prometheus.Counter
	transfers     *prometheus.CounterVec
	deleted       *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	purged        prometheus.Counter
	purgeRuns     *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_created_total",
			Help:      "Equipment items created.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_transfers_total",
			Help:      "Equipment transfers by source and destination building type.",
		}, []string{"from", "to"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_deleted_total",
			Help:      "Equipment items soft-deleted, by reason.",
		}, []string{"reason"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_status_changes_total",
			Help:      "Equipment items moved to a new status by a batch status change.",
		}, []string{"status"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_purged_total",
			Help:      "Soft-deleted equipment items removed permanently.",
		}),
		purgeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purge_runs_total",
			Help:      "Purge runs by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.created, m.transfers, m.deleted, m.statusChanges, m.purged, m.purgeRuns,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCreated(n int) {
	if m == nil {
		return
	}
	m.created.Add(float64(n))
}

func (m *Metrics) ObserveTransfer(from, to string) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveDeleted(reason string, n int) {
	if m == nil {
		return
	}
	m.deleted.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) ObserveStatusChange(status string, n int) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Add(float64(n))
}

// ObservePurge records one purge run. Items purged before a failure are
// still counted.
func (m *Metrics) ObservePurge(purged int, err error) {
	if m == nil {
		return
	}
	m.purged.Add(float64(purged))
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.purgeRuns.WithLabelValues(result).Inc()
}
