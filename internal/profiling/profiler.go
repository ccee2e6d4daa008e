// Package profiling writes pprof CPU, heap and execution-trace profiles for a
// single subseq run.
package profiling

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// Options names the profile outputs. Empty paths are skipped.
type Options struct {
	CPUPath   string
	MemPath   string
	TracePath string
}

// Enabled reports whether any profile was requested.
func (o Options) Enabled() bool {
	return o.CPUPath != "" || o.MemPath != "" || o.TracePath != ""
}

// Profiler manages performance profiling for the application.
type Profiler struct {
	opts      Options
	running   bool
	stopCPU   func()
	stopTrace func()
}

// NewProfiler creates a new Profiler instance.
func NewProfiler(opts Options) *Profiler {
	return &Profiler{opts: opts}
}

// Start begins CPU profiling and tracing as configured. It does nothing
// when no profile was requested.
func (p *Profiler) Start() error {
	if !p.opts.Enabled() {
		return nil
	}
	p.running = true
	if p.opts.CPUPath != "" {
		stop, err := startCPU(p.opts.CPUPath)
		if err != nil {
			return err
		}
		p.stopCPU = stop
	}
	if p.opts.TracePath != "" {
		stop, err := startTrace(p.opts.TracePath)
		if err != nil {
			_ = p.Stop()
			return err
		}
		p.stopTrace = stop
	}
	return nil
}

// Stop flushes running profiles and writes the heap snapshot. It is safe to
// call more than once.
func (p *Profiler) Stop() error {
	if !p.running {
		return nil
	}
	p.running = false
	if p.stopCPU != nil {
		p.stopCPU()
		p.stopCPU = nil
	}
	if p.stopTrace != nil {
		p.stopTrace()
		p.stopTrace = nil
	}
	if p.opts.MemPath != "" {
		path := p.opts.MemPath
		p.opts.MemPath = ""
		if err := writeHeap(path); err != nil {
			return err
		}
	}

	m := MemStats()
	slog.Debug("profiling_stopped",
		slog.String("heap_alloc", FormatBytes(m.HeapAlloc)),
		slog.String("total_alloc", FormatBytes(m.TotalAlloc)),
		slog.Uint64("num_gc", uint64(m.NumGC)))
	return nil
}

func profileError(kind, path string, err error) error {
	return suberrors.New(suberrors.ErrCodeProfileWrite,
		fmt.Sprintf("failed to write %s profile", kind), err).
		WithDetail("path", path)
}

func startCPU(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, profileError("cpu", path, err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, profileError("cpu", path, err)
	}

	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// writeHeap writes a point-in-time snapshot of live allocations.
func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return profileError("heap", path, err)
	}
	defer func() { _ = f.Close() }()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return profileError("heap", path, err)
	}
	return nil
}

func startTrace(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, profileError("trace", path, err)
	}

	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return nil, profileError("trace", path, err)
	}

	return func() {
		trace.Stop()
		_ = f.Close()
	}, nil
}

// MemStats returns current memory statistics.
func MemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// FormatBytes formats bytes into human-readable form.
func FormatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
