// Package cli implements the eex command-line interface.
//
// It wires kong flag parsing, a YAML configuration file resolver, early
// logger configuration, and optional pprof profiling around the subcommands
// in [github.com/vtm9/eex/cli/cmd].
package cli
