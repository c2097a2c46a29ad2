// Package metrics holds the Prometheus counters for recommendation lookups,
// nutrient classification and master-data edits.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Lookups         *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	BandEdits       *prometheus.CounterVec
	ReadingsTotal   prometheus.Counter
	SamplesTotal    prometheus.Counter

	registry *prometheus.Registry
}

func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agronomy_topup_lookups_total",
			Help: "N-Tester top-up lookups partitioned by outcome (match, no_match).",
		}, []string{"outcome"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agronomy_nutrient_classifications_total",
			Help: "Nutrient values classified, partitioned by status.",
		}, []string{"status"}),
		BandEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agronomy_band_table_edits_total",
			Help: "Band table edits partitioned by operation and result (ok, rejected).",
		}, []string{"op", "result"}),
		ReadingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agronomy_ntester_readings_recorded_total",
			Help: "N-Tester readings recorded.",
		}),
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agronomy_leaf_samples_ingested_total",
			Help: "Leaf samples ingested.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Lookups, m.Classifications, m.BandEdits, m.ReadingsTotal, m.SamplesTotal} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// NewUnregistered is for tests and the CLI, where nothing is scraped.
func NewUnregistered() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveLookup(matched bool) {
	if matched {
		m.Lookups.WithLabelValues("match").Inc()
		return
	}
	m.Lookups.WithLabelValues("no_match").Inc()
}

func (m *Metrics) ObserveClassification(status string) {
	m.Classifications.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveBandEdit(op string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.BandEdits.WithLabelValues(op, result).Inc()
}
