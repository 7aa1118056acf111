package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/vtm9/eex/log"
)

// programCache stores compiled host programs keyed by the xxh3 hash of
// their source. Templates are typically rendered many times per compile,
// and the host compilation dominates render cost.
//
//nolint:gochecknoglobals
var programCache sync.Map

// ClearCache removes all cached host programs. Primarily useful for tests
// and for reclaiming memory in long-lived processes.
func ClearCache() {
	programCache.Range(func(key, _ any) bool {
		programCache.Delete(key)

		return true
	})
}

// Render evaluates the compiled template against data layered over the
// built-in environment. Data names shadow builtins.
func (t *Template) Render(
	ctx context.Context,
	data map[string]any,
	opts ...Option,
) (string, error) {
	cfg := makeSettings(append([]Option{WithFile(t.file)}, opts...)...)

	program, err := t.program(ctx, cfg.logger)
	if err != nil {
		return "", err
	}

	env := makeBuiltins()
	env["env"] = envFunc(buildProcessEnvMap(nil))
	maps.Copy(env, data)

	result, err := vm.Run(program, env)
	if err != nil {
		return "", ErrExprEvaluate.Wrap(err).
			With(slog.String("file", t.file))
	}

	return stringValue(result), nil
}

// program returns the compiled host program for the template, compiling and
// caching it on first use.
func (t *Template) program(ctx context.Context, logger log.Logger) (*vm.Program, error) {
	source := t.Source()
	key := xxh3.HashString(source)

	if cached, ok := programCache.Load(key); ok {
		if program, ok := cached.(*vm.Program); ok {
			logger.TraceContext(ctx, "program cache hit",
				slog.String("source_hash", strconv.FormatUint(key, 16)),
			)

			return program, nil
		}
	}

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("file", t.file))
	}

	logger.TraceContext(ctx, "compiled program",
		slog.String("source_hash", strconv.FormatUint(key, 16)),
		slog.Int("source_bytes", len(source)),
	)

	programCache.Store(key, program)

	return program, nil
}

// Render compiles source and renders it against data in one call.
func Render(
	ctx context.Context,
	source string,
	data map[string]any,
	opts ...Option,
) (string, error) {
	t, err := Compile(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	return t.Render(ctx, data, opts...)
}

// stringValue converts a rendered result to output text. The default engine
// always produces strings; other engines may not.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
