package lang

// This file defines the built-in environment available to template
// expressions. The environment is lazily initialized once per process and
// cloned on every render so callers may layer their own data on top without
// affecting the shared cache.
//
// Built-in names can be shadowed by render data.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

//nolint:gochecknoglobals
var (
	builtinOnce sync.Once
	builtin     map[string]any
)

// makeBuiltins returns a clone of the lazily-initialized, process-scoped
// environment of template builtins.
func makeBuiltins() map[string]any {
	builtinOnce.Do(func() {
		builtin = map[string]any{
			"platform": runtime.GOOS + "/" + runtime.GOARCH,
			"hostname": getHostname(),
			"cwd":      getCwd,

			"file": map[string]any{
				"exists": fileExists,
				"isDir":  fileIsDir,
				"read":   fileRead,
			},

			"path": map[string]any{
				"abs":  pathAbs,
				"base": filepath.Base,
				"dir":  filepath.Dir,
				"ext":  filepath.Ext,
				"join": pathJoin,
			},

			// PATH-like list manipulation via mung.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(builtin)
}

// BuiltinKeys returns the top-level names in the built-in environment,
// including the env() function added at render time. Useful for completion
// and introspection.
func BuiltinKeys() []string {
	env := makeBuiltins()
	keys := make([]string, 0, len(env)+1)

	for k := range env {
		keys = append(keys, k)
	}

	return append(keys, "env")
}

// BuiltinLookup looks up a dot-separated path in the built-in environment
// and returns the keys of any map found at that path, or nil.
func BuiltinLookup(path string) []string {
	if path == "" {
		return BuiltinKeys()
	}

	var current any = makeBuiltins()

	for _, seg := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		current, ok = m[seg]
		if !ok {
			return nil
		}
	}

	m, ok := current.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileRead(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return string(data)
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathJoin(elem ...string) string {
	return filepath.Join(elem...)
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// buildProcessEnvMap converts a "KEY=VALUE" string slice to a map. If
// envList is nil, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if len(envList) == 0 {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

// envFunc returns the env() builtin that provides process environment
// access to template expressions.
func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
