package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "availability"

// Result labels
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultCacheHit    = "cache_hit"
	ResultCommitted   = "committed"
	ResultTaken       = "taken"
	ResultUnavailable = "unavailable"
)

// Metrics collects the service counters. A nil Registerer keeps them
// unregistered, which is what tests want.
type Metrics struct {
	SlotQueries       *prometheus.CounterVec
	SlotQueryDuration prometheus.Histogram
	SlotsReturned     prometheus.Histogram
	BookingCommits    *prometheus.CounterVec
	BookingsCompleted prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SlotQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_queries_total",
			Help:      "Slot queries by result",
		}, []string{"result"}),
		SlotQueryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slot_query_duration_seconds",
			Help:      "Time spent computing slots, cache misses only",
			Buckets:   prometheus.DefBuckets,
		}),
		SlotsReturned: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slots_returned",
			Help:      "Number of slots per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BookingCommits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_commits_total",
			Help:      "Booking commit attempts by result",
		}, []string{"result"}),
		BookingsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_completed_total",
			Help:      "Bookings moved to completed by the background job",
		}),
	}
}
