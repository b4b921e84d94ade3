package flexauth

import "sync/atomic"

// MetricID indexes a counter in the engine metrics registry.
type MetricID uint16

const (
	// MetricExtractBody counts credentials located in the request body.
	MetricExtractBody MetricID = iota
	// MetricExtractHeader counts credentials located in transport metadata.
	MetricExtractHeader
	// MetricExtractCookie counts credentials located in the configured cookie.
	MetricExtractCookie
	// MetricExtractAbsent counts requests with no locatable credential.
	MetricExtractAbsent
	// MetricExtractMalformed counts structurally invalid credentials.
	MetricExtractMalformed
	// MetricAuthSuccess counts successful token authentications.
	MetricAuthSuccess
	// MetricAuthFailure counts failed token authentications.
	MetricAuthFailure
	// MetricIssueSuccess counts issued tokens.
	MetricIssueSuccess
	// MetricRefreshSuccess counts successful token refreshes.
	MetricRefreshSuccess
	// MetricRefreshFailure counts failed token refreshes.
	MetricRefreshFailure
	// MetricSessionAuthSuccess counts successful session authentications.
	MetricSessionAuthSuccess
	// MetricSessionAuthFailure counts failed session authentications.
	MetricSessionAuthFailure

	metricIDCount
)

// paddedCounter keeps each counter on its own cache line.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics is a fixed-size atomic counter registry. The zero-value disabled
// registry makes every operation a no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a registry honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether the registry records increments.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id. Safe on a nil or disabled registry.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value returns the current value of the counter for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. A disabled registry yields empty maps, not nil.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
