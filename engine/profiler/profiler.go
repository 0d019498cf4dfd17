// Package profiler reports frame rate and memory statistics and wraps pkg/profile sessions for
// CPU and allocation profiling of a run.
package profiler

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/pkg/profile"
)

var log = logger.New("profiler")

// Stats is one reporting interval's measurements.
type Stats struct {
	// FPS is the number of frames per second over the interval.
	FPS float64
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	// GCCount is the total number of completed GC cycles.
	GCCount uint32
	// LastPause and MaxPause are the latest and the longest GC pause since the previous report.
	LastPause, MaxPause time.Duration
	// SysMB is the memory obtained from the OS.
	SysMB float64
}

func (s Stats) String() string {
	return fmt.Sprintf("FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %s, max: %s) | Sys: %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPause, s.MaxPause, s.SysMB)
}

// Profiler counts frames and logs Stats at a fixed interval.
type Profiler struct {
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a Profiler that reports once per second unless WithInterval overrides it.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one frame and logs Stats at Info when the interval has elapsed.
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := p.now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}
	if gc := p.memStats.NumGC; gc > 0 {
		// PauseNs is a ring of the last 256 pauses
		s.LastPause = time.Duration(p.memStats.PauseNs[(gc-1)%256])
		start := p.lastGCCount
		if gc-start > 256 {
			start = gc - 256
		}
		for i := start; i < gc; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}
	log.Info(s)

	p.last = s
	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently reported Stats.
func (p *Profiler) Last() Stats {
	return p.last
}

// Mode selects what a profiling session records.
type Mode string

const (
	ModeOff   Mode = ""
	ModeCPU   Mode = "cpu"
	ModeMem   Mode = "mem"
	ModeAlloc Mode = "alloc"
	ModeBlock Mode = "block"
)

// ParseMode converts a mode name to a Mode.
//
// Parameters:
//   - name: one of "", "off", "cpu", "mem", "alloc", "block"
//
// Returns:
//   - Mode: the parsed mode
//   - error: an error if the name is unknown
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case ModeOff, ModeCPU, ModeMem, ModeAlloc, ModeBlock:
		return m, nil
	case "off", "none":
		return ModeOff, nil
	}
	return ModeOff, fmt.Errorf("unknown profiling mode %q", name)
}

// Start begins a pkg/profile session writing to dir. The returned function stops the session
// and flushes the profile; it is a no-op for ModeOff.
//
// Parameters:
//   - mode: what to record
//   - dir: the output directory, or "" for the working directory
//
// Returns:
//   - func(): stops the session
func Start(mode Mode, dir string) func() {
	var m func(*profile.Profile)
	switch mode {
	case ModeCPU:
		m = profile.CPUProfile
	case ModeMem:
		m = profile.MemProfile
	case ModeAlloc:
		m = profile.MemProfileAllocs
	case ModeBlock:
		m = profile.BlockProfile
	default:
		return func() {}
	}
	if dir == "" {
		dir = "."
	}
	log.Infof("%s profiling to %s", mode, dir)
	p := profile.Start(m, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}
