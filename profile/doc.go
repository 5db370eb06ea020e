// Package profile provides optional runtime profiling for the mexl
// application.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag. When
// built without the tag (the default), every operation is a no-op with zero
// runtime overhead, and the list of supported modes is empty.
//
// # Available profiling modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list programmatically.
//
// # Usage
//
// Configure a profiler with functional options and start it:
//
//	var cfg profile.Config = func() (string, string, bool) {
//	    return "", "", false
//	}
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//	ctrl := cfg.Start()
//	defer ctrl.Stop()
//
// Profile files are written to the configured directory with names matching
// the mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-line usage
//
// The mexl command exposes profiling through flags when built with the tag:
//
//	go build -tags pprof .
//	./mexl --pprof-mode cpu --pprof-dir ./profiles check model.yaml
//
// When built with the pprof tag, this package imports [net/http/pprof], which
// registers its HTTP handlers on the default mux as a side effect:
//
//	import _ "net/http/pprof"
//
// Adjust sampling rates using [runtime.SetBlockProfileRate],
// [runtime.SetMutexProfileFraction], and [runtime.MemProfileRate].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
