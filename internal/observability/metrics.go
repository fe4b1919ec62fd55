package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	startedAt     time.Time
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
	outbound      map[string]int64
}

// RouteStat is a per route/method/status counter in a snapshot.
type RouteStat struct {
	Key           string  `json:"key"`
	Count         int64   `json:"count"`
	AvgDurationMS float64 `json:"avg_duration_ms"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	Requests      []RouteStat      `json:"requests"`
	Errors        map[string]int64 `json:"errors"`
	Outbound      map[string]int64 `json:"outbound_messages"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:     time.Now(),
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
		outbound:      make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordOutbound counts messages handed to the messaging provider, keyed by kind and outcome.
func (m *Metrics) RecordOutbound(kind string, ok bool) {
	if m == nil {
		return
	}
	key := kind + "|ok"
	if !ok {
		key = kind + "|failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbound[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Requests:      make([]RouteStat, 0, len(m.requestCount)),
		Errors:        make(map[string]int64, len(m.errorCount)),
		Outbound:      make(map[string]int64, len(m.outbound)),
	}
	for key, count := range m.requestCount {
		avg := float64(m.totalDuration[key].Microseconds()) / float64(count) / 1000
		snap.Requests = append(snap.Requests, RouteStat{Key: key, Count: count, AvgDurationMS: avg})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	for key, count := range m.errorCount {
		snap.Errors[key] = count
	}
	for key, count := range m.outbound {
		snap.Outbound[key] = count
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
