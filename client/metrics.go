package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "xasyncredis"

// outcome 的 result 标签
const (
	resultOK           = "ok"
	resultReplyError   = "reply_error"
	resultConnectError = "connect_error"
	resultReadError    = "read_error"
	resultTimeout      = "timeout"
)

// Metrics 批量请求的指标，nil 时所有方法都是空操作
type Metrics struct {
	outcomes      *prometheus.CounterVec
	batchDuration prometheus.Histogram
	batchCommands prometheus.Histogram
}

// NewMetrics 创建指标并注册到 reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "outcomes_total",
			Help:      "Number of command outcomes by result.",
		}, []string{"result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Time from batch submission until every command has an outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		batchCommands: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Name:      "batch_commands",
			Help:      "Number of commands per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	for _, c := range []prometheus.Collector{m.outcomes, m.batchDuration, m.batchCommands} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	// 预先创建所有标签，方便查询
	for _, r := range []string{resultOK, resultReplyError, resultConnectError, resultReadError, resultTimeout} {
		m.outcomes.WithLabelValues(r)
	}
	return m, nil
}

func (m *Metrics) observeOutcome(result string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) observeBatch(commands int, d time.Duration) {
	if m == nil {
		return
	}
	m.batchCommands.Observe(float64(commands))
	m.batchDuration.Observe(d.Seconds())
}
