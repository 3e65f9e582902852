package profiler

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks wall time and memory statistics of individual scene loads.
// Each finished load is logged with its duration, allocation churn and GC activity.
// Counters accumulate across loads and are safe for concurrent use.
type Profiler struct {
	mu      sync.Mutex
	log     *zap.Logger
	loads   int
	total   time.Duration
	slowest time.Duration
}

// Span is one in-flight measurement started by Profiler.Start.
type Span struct {
	p          *Profiler
	name       string
	start      time.Time
	totalAlloc uint64
	numGC      uint32
}

// NewProfiler creates a new Profiler logging through log.
//
// Parameters:
//   - log: the logger receiving per-load statistics; nil means a no-op logger
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{log: log.Named("profiler")}
}

// Start begins measuring the load identified by name.
//
// Parameters:
//   - name: the load identity, usually the source path
//
// Returns:
//   - *Span: the measurement to finish with End
func (p *Profiler) Start(name string) *Span {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Span{
		p:          p,
		name:       name,
		start:      time.Now(),
		totalAlloc: ms.TotalAlloc,
		numGC:      ms.NumGC,
	}
}

// End finishes the measurement and logs it. Allocation and GC figures are process-wide,
// so loads running in parallel share their deltas.
//
// Parameters:
//   - fields: extra fields describing the load outcome
//
// Returns:
//   - time.Duration: the elapsed wall time
func (s *Span) End(fields ...zap.Field) time.Duration {
	elapsed := time.Since(s.start)

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	// TotalAlloc only grows, so the delta is the churn of the load.
	allocMB := float64(ms.TotalAlloc-s.totalAlloc) / 1024 / 1024
	heapMB := float64(ms.HeapAlloc) / 1024 / 1024

	var maxPauseUs uint64
	gcCount := ms.NumGC
	startIdx := s.numGC
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		// PauseNs is a circular buffer of the last 256 GC pauses
		if pause := ms.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	p := s.p
	p.mu.Lock()
	p.loads++
	p.total += elapsed
	p.slowest = max(p.slowest, elapsed)
	p.mu.Unlock()

	p.log.Info("load profiled", append([]zap.Field{
		zap.String("name", s.name),
		zap.Duration("elapsed", elapsed),
		zap.Float64("alloc_mb", allocMB),
		zap.Float64("heap_mb", heapMB),
		zap.Uint32("gc", gcCount-s.numGC),
		zap.Uint64("max_pause_us", maxPauseUs),
	}, fields...)...)
	return elapsed
}

// Stats returns the number of finished loads, their summed wall time and the slowest one.
//
// Returns:
//   - int: the number of loads measured
//   - time.Duration: the total elapsed time
//   - time.Duration: the longest single load
func (p *Profiler) Stats() (int, time.Duration, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loads, p.total, p.slowest
}
