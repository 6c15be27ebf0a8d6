package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
)

const nanosecondsPerMillisecond = 1e6

// RunRuntimeUpdater refreshes the runtime gauges every interval until ctx is done.
// The clock is injectable so tests can drive the ticker.
func RunRuntimeUpdater(ctx context.Context, clock clockwork.Clock, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			UpdateRuntimeMetrics()
		}
	}
}

// UpdateRuntimeMetrics samples memory, goroutine and GC statistics once.
func UpdateRuntimeMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	UpdateSystemMemoryUsage(m.Alloc)

	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		RecordSystemGCPauseTime(avgPauseMs)
	}
}
