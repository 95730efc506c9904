package ch

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics is a prometheus.Collector reporting query-level
// counters for a Session, complementing chpool.Metrics (which only
// tracks pool membership, not query volume).
type SessionMetrics struct {
	queries        prometheus.Counter
	queryErrors    prometheus.Counter
	blocksSent     prometheus.Counter
	blocksReceived prometheus.Counter
	rowsReceived   prometheus.Counter
	bytesReceived  prometheus.Counter
}

// NewSessionMetrics builds an unregistered SessionMetrics collector.
func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "queries_total", Help: "Queries run through Session.Query.",
		}),
		queryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "query_errors_total", Help: "Queries that returned a non-nil error.",
		}),
		blocksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "blocks_sent_total", Help: "Data blocks written to the server.",
		}),
		blocksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "blocks_received_total", Help: "Data blocks read from the server.",
		}),
		rowsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "rows_received_total", Help: "Rows read from the server across all blocks.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ch", Name: "bytes_received_total", Help: "Progress bytes reported by the server.",
		}),
	}
}

// Observe folds one completed query's metrics into the collector. err is
// the error (if any) returned by Session.Query.
func (m *SessionMetrics) Observe(q queryMetrics, err error) {
	m.queries.Inc()
	if err != nil {
		m.queryErrors.Inc()
	}
	m.blocksSent.Add(float64(q.BlocksSent))
	m.blocksReceived.Add(float64(q.BlocksReceived))
	m.rowsReceived.Add(float64(q.RowsReceived))
	m.bytesReceived.Add(float64(q.Bytes))
}

// Describe implements prometheus.Collector.
func (m *SessionMetrics) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(m, ch)
}

// Collect implements prometheus.Collector.
func (m *SessionMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range []prometheus.Counter{
		m.queries, m.queryErrors, m.blocksSent, m.blocksReceived, m.rowsReceived, m.bytesReceived,
	} {
		c.Collect(ch)
	}
}
