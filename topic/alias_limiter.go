package topic

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// UsageStore persists the byte total tracked by an AliasLimiter so it
// survives a broker restart or is shared across broker processes. The
// in-memory counter remains authoritative for limitExceeded; a store is
// purely a durability/replication side channel, updated best-effort.
type UsageStore interface {
	// Add records a positive or negative delta against the persisted total.
	Add(delta int64) error
	// Load returns the persisted total, 0 if nothing has been written yet.
	Load() (int64, error)
}

// AliasLimiter is the global, process-wide Topic-Alias Limiter. It tracks
// the total bytes held in live alias bindings across every connection and
// enforces a configured hard byte ceiling. Bindings are refcounted by topic
// string so that the same topic aliased on two connections is only charged
// once while either holds it.
//
// addUsage/removeUsage/limitExceeded are individually linearizable but are
// not wrapped in a single cross-call lock: the resolver in publish/alias.go
// mutates first and checks limitExceeded afterward, and that check may
// observe concurrent increases from other connections. See spec §4.4/§9.
type AliasLimiter struct {
	mu       sync.Mutex
	refcount map[string]int32
	bytes    atomic.Int64
	limit    int64

	store UsageStore
	gauge prometheus.Gauge
}

// NewAliasLimiter creates a limiter enforcing hardLimit tracked bytes.
// A hardLimit of 0 disables enforcement (limitExceeded always false).
func NewAliasLimiter(hardLimit int64) *AliasLimiter {
	return &AliasLimiter{
		refcount: make(map[string]int32),
		limit:    hardLimit,
	}
}

// WithStore attaches a durable/clustered backing store. Existing persisted
// usage is loaded into the in-memory counter immediately; refcounts (which
// topic owns how much) are not persisted, only the aggregate byte total.
func (l *AliasLimiter) WithStore(store UsageStore) (*AliasLimiter, error) {
	l.store = store
	total, err := store.Load()
	if err != nil {
		return l, err
	}
	l.bytes.Store(total)
	return l, nil
}

// WithGauge attaches a prometheus gauge kept in sync with tracked bytes.
func (l *AliasLimiter) WithGauge(gauge prometheus.Gauge) *AliasLimiter {
	l.gauge = gauge
	gauge.Set(float64(l.bytes.Load()))
	return l
}

// AddUsage registers one more alias binding pointing at topic, charging its
// byte length against the tracked total.
func (l *AliasLimiter) AddUsage(topic string) {
	l.mu.Lock()
	l.refcount[topic]++
	first := l.refcount[topic] == 1
	l.mu.Unlock()

	if first {
		l.adjust(int64(len(topic)))
	}
}

// RemoveUsage releases one alias binding that pointed at topic.
func (l *AliasLimiter) RemoveUsage(topic string) {
	l.mu.Lock()
	held := l.refcount[topic] > 0
	n := l.refcount[topic] - 1
	if n <= 0 {
		delete(l.refcount, topic)
	} else {
		l.refcount[topic] = n
	}
	l.mu.Unlock()

	if held && n == 0 {
		l.adjust(-int64(len(topic)))
	}
}

func (l *AliasLimiter) adjust(delta int64) {
	total := l.bytes.Add(delta)
	if l.gauge != nil {
		l.gauge.Set(float64(total))
	}
	if l.store != nil {
		_ = l.store.Add(delta)
	}
}

// LimitExceeded reports whether tracked bytes currently exceed the
// configured hard limit. It is deliberately a plain read of the atomic
// counter, taken after the caller's own addUsage/removeUsage, so it may see
// increases from other connections racing concurrently — this is required
// by the spec's mutate-then-check ordering, not a bug.
func (l *AliasLimiter) LimitExceeded() bool {
	if l.limit <= 0 {
		return false
	}
	return l.bytes.Load() > l.limit
}

// TrackedBytes returns the current tracked byte total, for diagnostics.
func (l *AliasLimiter) TrackedBytes() int64 {
	return l.bytes.Load()
}
