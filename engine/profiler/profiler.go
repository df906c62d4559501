package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"go.uber.org/zap"
)

// Stats is one reporting window's worth of measurements.
type Stats struct {
	// Rate is the number of Tick calls per second over the window.
	Rate float64
	// HeapMB is the live heap at the end of the window.
	HeapMB float64
	// AllocRateMB is heap churn in MB per second over the window.
	AllocRateMB float64
	// GCCount is the cumulative number of completed GC cycles.
	GCCount uint32
	// LastPauseUs and MaxPauseUs describe GC pauses observed during the window.
	LastPauseUs uint64
	MaxPauseUs  uint64
	// SysMB is the total memory obtained from the OS.
	SysMB float64
}

// Profiler tracks loop rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	label          string
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	logger         *zap.Logger
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are computed and logged.
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLabel names the measured loop in log output, e.g. "tick" or "render".
func WithLabel(label string) ProfilerOption {
	return func(p *Profiler) {
		p.label = label
	}
}

// WithLogger sets the logger stats are written to.
func WithLogger(l *zap.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger.OrNop(l).Named("profiler")
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		label:          "tick",
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		logger:         zap.NewNop(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per loop iteration.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: rate, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were computed this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	// TotalAlloc only grows, so the delta over the window is the churn.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.last = Stats{
		Rate:        float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     gcCount,
		LastPauseUs: lastPauseUs,
		MaxPauseUs:  maxPauseUs,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	p.logger.Info("profile",
		zap.String("loop", p.label),
		zap.Float64("rate", p.last.Rate),
		zap.Float64("heap_mb", p.last.HeapMB),
		zap.Float64("alloc_rate_mb", p.last.AllocRateMB),
		zap.Uint32("gc", gcCount),
		zap.Uint64("gc_last_us", lastPauseUs),
		zap.Uint64("gc_max_us", maxPauseUs),
		zap.Float64("sys_mb", p.last.SysMB),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats from the most recent completed window.
func (p *Profiler) Last() Stats {
	return p.last
}
