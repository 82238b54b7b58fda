package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"spotinfo/internal/reconcile"
)

// Collector counts what a run did. It implements reconcile.Observer and
// feed.FetchObserver and keeps its metrics on a private registry so that
// several collectors can coexist (one per run, one per test).
type Collector struct {
	registry *prometheus.Registry

	// Records produced by each reconciler.
	RecordsTotal *prometheus.CounterVec
	// Partially malformed entries skipped by each reconciler.
	SkippedEntriesTotal *prometheus.CounterVec
	// Rows handed to the report for the last selection.
	RowsSelectedGauge *prometheus.GaugeVec
	// Duration of document retrievals, by document and result.
	FetchDuration *prometheus.HistogramVec
	// Unix time the last run finished.
	LastRunTimestamp prometheus.Gauge
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotinfo_records_total",
				Help: "Number of records produced per source.",
			},
			[]string{"source"},
		),
		SkippedEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotinfo_skipped_entries_total",
				Help: "Number of malformed document entries skipped per source.",
			},
			[]string{"source"},
		),
		RowsSelectedGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spotinfo_rows_selected",
				Help: "Number of rows reported for a region.",
			},
			[]string{"region"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spotinfo_fetch_duration_seconds",
				Help:    "Duration of document retrievals in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms → ~20s
			},
			[]string{"document", "result"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotinfo_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run.",
			},
		),
	}
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordsBuilt(source string, count int) {
	c.RecordsTotal.WithLabelValues(source).Add(float64(count))
}

func (c *Collector) EntrySkipped(source string, _ *reconcile.Error) {
	c.SkippedEntriesTotal.WithLabelValues(source).Inc()
}

func (c *Collector) RowsSelected(region string, count int) {
	c.RowsSelectedGauge.WithLabelValues(region).Set(float64(count))
}

// ObserveFetch records a document retrieval.
func (c *Collector) ObserveFetch(document string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.FetchDuration.WithLabelValues(document, result).Observe(elapsed.Seconds())
}

// MarkRun stamps the completion time of a run.
func (c *Collector) MarkRun(at time.Time) {
	c.LastRunTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format
// read by the node exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

var _ reconcile.Observer = (*Collector)(nil)
