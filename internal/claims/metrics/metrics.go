package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Claim outcomes used as the "outcome" label.
const (
	OutcomeClaimed       = "claimed"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeAlreadyTaken  = "already_claimed"
	OutcomeIdentityBound = "identity_already_bound"
	OutcomeUnresolved    = "resolution_failed"
	OutcomePersistFailed = "persistence_failed"
	OutcomeInvalid       = "invalid"
)

// Metrics provides observability for the claim registry.
type Metrics struct {
	Claims        *prometheus.CounterVec
	Releases      prometheus.Counter
	Bindings      prometheus.Gauge
	ClaimDuration prometheus.Histogram
}

// New registers the registry metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Claims: f.NewCounterVec(prometheus.CounterOpts{
			Name: "atproto_handle_claims_total",
			Help: "Claim attempts by outcome",
		}, []string{"outcome"}),
		Releases: f.NewCounter(prometheus.CounterOpts{
			Name: "atproto_handle_releases_total",
			Help: "Bindings removed by release, shredder cleanup or admin delete",
		}),
		Bindings: f.NewGauge(prometheus.GaugeOpts{
			Name: "atproto_handle_bindings",
			Help: "Number of bindings currently held",
		}),
		ClaimDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "atproto_handle_claim_duration_seconds",
			Help:    "Duration of Claim including identity resolution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementClaim(outcome string) {
	m.Claims.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddReleases(n int) {
	m.Releases.Add(float64(n))
}

func (m *Metrics) SetBindings(n int) {
	m.Bindings.Set(float64(n))
}

// ObserveClaim records the duration of a Claim.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveClaim(start time.Time) {
	m.ClaimDuration.Observe(time.Since(start).Seconds())
}
