package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks dispatch activity.
type Metrics struct {
	eventsTotal     atomic.Uint64
	unmappedEvents  atomic.Uint64
	matchedEvents   atomic.Uint64
	suppressed      atomic.Uint64
	handlersRun     atomic.Uint64
	handlerFailures atomic.Uint64
	handlerPanics   atomic.Uint64
	skippedFocus    atomic.Uint64
	skippedWhen     atomic.Uint64

	// Dispatch latency ring buffer.
	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int

	peakLatency atomic.Int64
	startTime   time.Time
}

const latencySamples = 512

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, latencySamples),
		startTime: time.Now(),
	}
}

func (m *Metrics) recordEvent(mapped bool) {
	m.eventsTotal.Add(1)
	if !mapped {
		m.unmappedEvents.Add(1)
	}
}

func (m *Metrics) recordDispatch(latency time.Duration, ran int) {
	if ran > 0 {
		m.matchedEvents.Add(1)
		m.suppressed.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if ns <= current || m.peakLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % len(m.latencies)
	m.mu.Unlock()
}

func (m *Metrics) recordResult(r Result) {
	m.handlersRun.Add(1)
	if r.Panicked {
		m.handlerPanics.Add(1)
	}
	if !r.Success {
		m.handlerFailures.Add(1)
	}
}

// Stats is a point-in-time view of the metrics.
type Stats struct {
	EventsTotal     uint64
	UnmappedEvents  uint64
	MatchedEvents   uint64
	Suppressed      uint64
	HandlersRun     uint64
	HandlerFailures uint64
	HandlerPanics   uint64
	SkippedFocus    uint64
	SkippedWhen     uint64

	AvgLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns the current counters and latency statistics.
func (m *Metrics) Snapshot() Stats {
	m.mu.Lock()
	samples := make([]time.Duration, 0, len(m.latencies))
	for _, l := range m.latencies {
		if l > 0 {
			samples = append(samples, l)
		}
	}
	start := m.startTime
	m.mu.Unlock()

	s := Stats{
		EventsTotal:     m.eventsTotal.Load(),
		UnmappedEvents:  m.unmappedEvents.Load(),
		MatchedEvents:   m.matchedEvents.Load(),
		Suppressed:      m.suppressed.Load(),
		HandlersRun:     m.handlersRun.Load(),
		HandlerFailures: m.handlerFailures.Load(),
		HandlerPanics:   m.handlerPanics.Load(),
		SkippedFocus:    m.skippedFocus.Load(),
		SkippedWhen:     m.skippedWhen.Load(),
		PeakLatency:     time.Duration(m.peakLatency.Load()),
		Uptime:          time.Since(start),
	}
	s.AvgLatency, s.P99Latency = latencyStats(samples)
	return s
}

func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	avg = sum / time.Duration(len(samples))

	slices.Sort(samples)
	idx := int(float64(len(samples)) * 0.99)
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return avg, samples[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.eventsTotal.Store(0)
	m.unmappedEvents.Store(0)
	m.matchedEvents.Store(0)
	m.suppressed.Store(0)
	m.handlersRun.Store(0)
	m.handlerFailures.Store(0)
	m.handlerPanics.Store(0)
	m.skippedFocus.Store(0)
	m.skippedWhen.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, latencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
