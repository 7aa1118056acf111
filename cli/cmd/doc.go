// Package cmd implements the eex subcommands for rendering, compiling, and
// inspecting templates, plus the interactive playground.
package cmd

// CacheIdentifier is the kong variable identifier containing the path to
// the runtime cache directory.
var CacheIdentifier = "cache"
