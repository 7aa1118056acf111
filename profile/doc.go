// Package profile provides optional runtime profiling for the eex
// application.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag. When
// built without the tag (the default), all operations are no-ops with zero
// runtime overhead.
//
// Supported modes with the tag enabled: allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace. Use [Modes] to retrieve
// the list programmatically. Profile files are written to the configured
// directory with names matching the mode (e.g., cpu.pprof).
//
// Command-line usage:
//
//	# Enable CPU profiling (writes to the default cache directory)
//	eex --pprof-mode cpu render template.eex
//
//	# Analyze
//	go tool pprof ./eex cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering its HTTP
// handlers for applications that serve the default mux.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
