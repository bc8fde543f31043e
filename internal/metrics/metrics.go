package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kvitt_mutations_total",
		Help: "Total ledger mutations, labelled by operation and outcome.",
	}, []string{"op", "status"})

	EventsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kvitt_events_created_total",
		Help: "Total events created, labelled by kind.",
	}, []string{"kind"})

	ReallocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kvitt_reallocations_total",
		Help: "Total full settlement recomputations performed.",
	})

	ReallocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kvitt_reallocation_duration_ms",
		Help:    "Duration of a reload-allocate-writeback cycle in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	})

	OwnersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kvitt_owners_registered_total",
		Help: "Total owners registered.",
	})
)
