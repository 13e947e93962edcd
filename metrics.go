package goSession

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	// MetricBootAuthenticated counts boot checks that found a live token.
	MetricBootAuthenticated MetricID = iota
	// MetricBootNoToken counts boot checks with no stored token.
	MetricBootNoToken
	// MetricBootMalformed counts stored tokens that could not be decoded.
	MetricBootMalformed
	// MetricBootMissingExpiry counts stored tokens without an exp claim.
	MetricBootMissingExpiry
	// MetricBootExpired counts stored tokens past their expiry.
	MetricBootExpired
	// MetricBootReadFailure counts boot checks whose store read failed.
	MetricBootReadFailure
	// MetricTokenPurged counts invalid tokens removed during boot.
	MetricTokenPurged
	// MetricTokenPurgeFailure counts invalid tokens that could not be removed.
	MetricTokenPurgeFailure
	MetricLogin
	MetricLogout
	// MetricLogoutKeyFailure counts individual session keys a logout failed to remove.
	MetricLogoutKeyFailure
	// MetricLogoutClear counts logouts that wiped the whole store after a key failure.
	MetricLogoutClear
	MetricSignInSuccess
	MetricSignInFailure
	// MetricSignInLocked counts SignIn calls refused after too many failures.
	MetricSignInLocked
	// MetricStoreFallback counts store operations served by the fallback backend
	// after the native backend failed.
	MetricStoreFallback
	// MetricSubscriberDropped counts state snapshots replaced before a subscriber read them.
	MetricSubscriberDropped
	// MetricBootLatency is the only histogram: time spent resolving the boot check.
	MetricBootLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters.
//
// A nil or disabled Metrics accepts every call and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of [Metrics].
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d into the histogram id. Only [MetricBootLatency] keeps
// a histogram; other ids are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricBootLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter, and the boot latency buckets when
// histograms are enabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricBootLatency].buckets[i])
		}
		s.Histograms[MetricBootLatency] = buckets
	}

	return s
}

// Bucket upper bounds in milliseconds. Boot reads hit a local file or a
// nearby redis, so the scale is tighter than request latency.
func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 1:
		return 0
	case ms <= 5:
		return 1
	case ms <= 10:
		return 2
	case ms <= 25:
		return 3
	case ms <= 50:
		return 4
	case ms <= 100:
		return 5
	case ms <= 250:
		return 6
	default:
		return 7
	}
}
