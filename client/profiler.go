package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"blobarena/game"
	"blobarena/logger"
)

// FrameStats is the arena load at the moment the frame rate dropped
type FrameStats struct {
	FPS     float64
	Frame   int
	Players int
	Blobs   int
	Enemies int
	Food    int
	Weapons int
}

// StatsOf counts what the arena is simulating right now
func StatsOf(arena *game.Arena, fps float64) FrameStats {
	st := FrameStats{
		FPS:     fps,
		Frame:   arena.Frame(),
		Players: len(arena.LivePlayers()),
		Enemies: len(arena.Enemies()),
	}
	for _, p := range arena.Players() {
		st.Blobs += p.BlobCount()
	}
	for _, c := range arena.World().AllChunks() {
		st.Food += len(c.Food())
		st.Weapons += len(c.Weapons())
	}
	return st
}

func (s FrameStats) name() string {
	return fmt.Sprintf("fps%.0f-blobs%d-enemies%d", s.FPS, s.Blobs, s.Enemies)
}

func (s FrameStats) fields() logrus.Fields {
	return logrus.Fields{
		"fps":     s.FPS,
		"frame":   s.Frame,
		"players": s.Players,
		"blobs":   s.Blobs,
		"enemies": s.Enemies,
		"food":    s.Food,
		"weapons": s.Weapons,
	}
}

// Profiler records a CPU profile and an execution trace of the arena when
// the frame rate drops. Only one capture runs at a time.
type Profiler struct {
	dir      string
	window   time.Duration
	cooldown time.Duration

	mu      sync.Mutex
	running bool
	last    time.Time
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string) *Profiler {
	return &Profiler{
		dir:      dir,
		window:   5 * time.Second,
		cooldown: 10 * time.Second,
	}
}

// IsProfiling returns whether a capture is in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// CaptureProfile starts a background capture for the given arena load
func (p *Profiler) CaptureProfile(stats FrameStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.running:
		return fmt.Errorf("capture already running")
	case time.Since(p.last) < p.cooldown:
		return fmt.Errorf("capture on cooldown for another %v", p.cooldown-time.Since(p.last))
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}

	p.running = true
	p.last = time.Now()
	base := filepath.Join(p.dir, fmt.Sprintf("arena-%s-%s", p.last.Format("20060102-150405"), stats.name()))

	go p.capture(base, stats)
	return nil
}

func (p *Profiler) capture(base string, stats FrameStats) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	profiles := []struct {
		path  string
		start func(io.Writer) error
		stop  func()
	}{
		{base + ".cpu.prof", pprof.StartCPUProfile, pprof.StopCPUProfile},
		{base + ".trace", trace.Start, trace.Stop},
	}

	var wg sync.WaitGroup
	for _, prof := range profiles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.record(prof.path, prof.start, prof.stop); err != nil {
				logger.Log.WithError(err).WithField("file", prof.path).Warn("profile capture failed")
			}
		}()
	}
	wg.Wait()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Log.WithFields(stats.fields()).WithFields(logrus.Fields{
		"profile":      base + ".cpu.prof",
		"heap_kb":      m.HeapAlloc / 1024,
		"heap_objects": m.HeapObjects,
		"num_gc":       m.NumGC,
	}).Info("arena profile captured")
}

// record runs one profiler for the capture window into path
func (p *Profiler) record(path string, start func(io.Writer) error, stop func()) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := start(f); err != nil {
		return fmt.Errorf("start %s: %w", filepath.Ext(path), err)
	}
	time.Sleep(p.window)
	stop()
	return nil
}
