// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// pretty (colorized) output, and text/json formats that are applied at
// logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled template", slog.String("file", name))
//	logger.Error("render failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
// # Zero Value
//
// The zero value Logger discards all messages, so library code can accept a
// Logger without nil checks and callers opt into logging by providing one.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Trace sits below slog's Debug
// and carries the compiler's per-token diagnostics. Messages below the
// configured level are discarded.
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The
// context-unaware functions call their counterparts with the context from
// [DefaultContextProvider], which is [context.TODO] by default.
package log
