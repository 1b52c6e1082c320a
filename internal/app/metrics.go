package app

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics tracks render loop performance. Counters are atomic so a
// snapshot can be taken from any goroutine while the loop runs.
type Metrics struct {
	// Loop iterations
	iterations atomic.Uint64
	idleSleeps atomic.Uint64

	// Frame timing (one frame is one render pass)
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Output
	cellsWritten    atomic.Uint64
	windowsRendered atomic.Uint64

	// Input handling
	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64
	inputDropped atomic.Uint64

	// Memory (sampled periodically)
	lastHeapBytes atomic.Uint64
	lastGCPauseNs atomic.Int64

	startNs atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.Reset()
	return m
}

// RecordIteration counts one pass of the loop. idle reports whether the
// pass ended in the long idle sleep.
func (m *Metrics) RecordIteration(idle bool) {
	m.iterations.Add(1)
	if idle {
		m.idleSleeps.Add(1)
	}
}

// RecordFrame records one render pass: its duration, the windows it
// repainted and the cells it sent to the backend.
func (m *Metrics) RecordFrame(duration time.Duration, windows, cells int) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.windowsRendered.Add(uint64(windows))
	m.cellsWritten.Add(uint64(cells))

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records input processing timing.
func (m *Metrics) RecordInput(duration time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// RecordInputDropped records an input event lost to a full queue.
func (m *Metrics) RecordInputDropped() {
	m.inputDropped.Add(1)
}

// SampleMemory reads heap statistics from the runtime.
func (m *Metrics) SampleMemory() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.lastHeapBytes.Store(ms.HeapAlloc)
	m.lastGCPauseNs.Store(int64(ms.PauseNs[(ms.NumGC+255)%256]))
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	inputCount := m.inputCount.Load()

	var avgFrameNs, avgInputNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}
	if inputCount > 0 {
		avgInputNs = m.inputTotalNs.Load() / int64(inputCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:          time.Since(time.Unix(0, m.startNs.Load())),
		Iterations:      m.iterations.Load(),
		IdleSleeps:      m.idleSleeps.Load(),
		FrameCount:      frameCount,
		AvgFrameTimeNs:  avgFrameNs,
		MinFrameTimeNs:  minFrameNs,
		MaxFrameTimeNs:  m.frameMaxNs.Load(),
		LastFrameNs:     m.lastFrameNs.Load(),
		CellsWritten:    m.cellsWritten.Load(),
		WindowsRendered: m.windowsRendered.Load(),
		InputCount:      inputCount,
		AvgInputTimeNs:  avgInputNs,
		InputDropped:    m.inputDropped.Load(),
		HeapBytes:       m.lastHeapBytes.Load(),
		LastGCPauseNs:   m.lastGCPauseNs.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.iterations.Store(0)
	m.idleSleeps.Store(0)
	m.frameCount.Store(0)
	m.frameTotalNs.Store(0)
	m.frameMinNs.Store(1<<63 - 1)
	m.frameMaxNs.Store(0)
	m.lastFrameNs.Store(0)
	m.cellsWritten.Store(0)
	m.windowsRendered.Store(0)
	m.inputCount.Store(0)
	m.inputTotalNs.Store(0)
	m.inputDropped.Store(0)
	m.startNs.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime          time.Duration
	Iterations      uint64
	IdleSleeps      uint64
	FrameCount      uint64
	AvgFrameTimeNs  int64
	MinFrameTimeNs  int64
	MaxFrameTimeNs  int64
	LastFrameNs     int64
	CellsWritten    uint64
	WindowsRendered uint64
	InputCount      uint64
	AvgInputTimeNs  int64
	InputDropped    uint64
	HeapBytes       uint64
	LastGCPauseNs   int64
}

// FPS returns rendered frames per second of uptime.
func (s MetricsSnapshot) FPS() float64 {
	if s.Uptime <= 0 {
		return 0
	}
	return float64(s.FrameCount) / s.Uptime.Seconds()
}

// AvgFrameTime returns the mean render pass duration.
func (s MetricsSnapshot) AvgFrameTime() time.Duration {
	return time.Duration(s.AvgFrameTimeNs)
}

// CellsPerFrame returns the mean number of cells written per frame.
func (s MetricsSnapshot) CellsPerFrame() float64 {
	if s.FrameCount == 0 {
		return 0
	}
	return float64(s.CellsWritten) / float64(s.FrameCount)
}

// IdleRate returns the percentage of loop iterations that slept idle.
func (s MetricsSnapshot) IdleRate() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return float64(s.IdleSleeps) / float64(s.Iterations) * 100
}

// HeapMB returns heap size in megabytes.
func (s MetricsSnapshot) HeapMB() float64 {
	return float64(s.HeapBytes) / (1024 * 1024)
}

// Timer measures elapsed time against an injectable clock.
type Timer struct {
	now   func() time.Time
	start time.Time
}

// StartTimer creates a new timer on the wall clock.
func StartTimer() *Timer {
	return startTimer(time.Now)
}

func startTimer(now func() time.Time) *Timer {
	return &Timer{now: now, start: now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Stop returns the elapsed time and restarts the timer.
func (t *Timer) Stop() time.Duration {
	now := t.now()
	elapsed := now.Sub(t.start)
	t.start = now
	return elapsed
}
