package log

import (
	"io"
	"sync"
)

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// locked wraps a mutation so that it runs under the config's write lock,
// creating the mutex first if the config is a zero value.
func locked(mutate func(config) config) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		return mutate(c)
	}
}

// WithDefaults returns a functional option that resets the configuration to
// its defaults, writing to the given writer ([io.Discard] when nil).
func WithDefaults(w io.Writer) Option {
	return locked(func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w
		c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty

		return c
	})
}

// WithOutput returns a functional option that sets the output writer for log
// messages. If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	return locked(func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	})
}

// WithLevel returns a functional option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return locked(func(c config) config {
		c.level = level

		return c
	})
}

// WithFormat returns a functional option that sets the output format for log
// messages.
func WithFormat(format Format) Option {
	return locked(func(c config) config {
		c.format = format

		return c
	})
}

// WithTimeLayout returns a functional option that sets the layout used to
// format log timestamps.
//
// The layout string can be one of the named layouts from the [time] package
// (for example, "RFC3339" or "StampMilli"). Otherwise, it is passed verbatim
// to [time.Time.Format]. An empty string disables timestamps entirely.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return locked(func(c config) config {
		c.formatTime = format

		return c
	})
}

// WithCaller returns a functional option that controls whether caller
// information is included in log output.
func WithCaller(enable bool) Option {
	return locked(func(c config) config {
		c.caller = enable

		return c
	})
}

// WithPretty returns a functional option that controls whether log output
// uses colorized, human-oriented formatting.
func WithPretty(enable bool) Option {
	return locked(func(c config) config {
		c.pretty = enable

		return c
	})
}
