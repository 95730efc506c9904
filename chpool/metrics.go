package chpool

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the pool's Prometheus counters, grounded on
// ClusterCockpit-cc-backend's go.mod bringing prometheus/client_golang
// into the retrieval pack as the ecosystem metrics library.
type Metrics struct {
	dialed     prometheus.Counter
	dialErrors prometheus.Counter
	acquired   prometheus.Counter
	released   prometheus.Counter
}

// NewMetrics constructs a Metrics set with standalone (unregistered)
// counters; call Register to expose them on a prometheus.Registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		dialed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch_pool", Name: "dials_total", Help: "Sessions dialed by the pool.",
		}),
		dialErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch_pool", Name: "dial_errors_total", Help: "Dial attempts that failed.",
		}),
		acquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch_pool", Name: "acquired_total", Help: "Connections handed out by Acquire.",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch_pool", Name: "released_total", Help: "Connections returned via Release or Close.",
		}),
	}
}

// Register exposes m's counters on reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.dialed, m.dialErrors, m.acquired, m.released} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
