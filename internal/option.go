package internal

import (
	"io"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	now       func() time.Time
	logWriter io.Writer
	stdout    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock sets the clock used for lastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithLogWriter sets the destination of structured logs.
func WithLogWriter(w io.Writer) Option {
	return func(a *application) {
		a.logWriter = w
	}
}

// WithStdout sets the destination of the run summary.
func WithStdout(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}
