package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage and outcome label values.
const (
	StageBegin    = "begin"
	StageCallback = "callback"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics provides observability for the shredder login flow.
type Metrics struct {
	Logins          *prometheus.CounterVec
	CleanupFailures prometheus.Counter
	Released        prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "atproto_handle_shredder_logins_total",
			Help: "Shredder login steps by stage and outcome",
		}, []string{"stage", "outcome"}),
		CleanupFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "atproto_handle_shredder_cleanup_failures_total",
			Help: "Post-login binding releases that failed",
		}),
		Released: f.NewCounter(prometheus.CounterOpts{
			Name: "atproto_handle_shredder_released_domains_total",
			Help: "Domains released by completed shredder logins",
		}),
	}
}

func (m *Metrics) IncrementLogin(stage, outcome string) {
	m.Logins.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) IncrementCleanupFailure() {
	m.CleanupFailures.Inc()
}

func (m *Metrics) AddReleased(n int) {
	m.Released.Add(float64(n))
}
