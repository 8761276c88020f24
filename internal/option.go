package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	dryRun bool
	out    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDryRun reports the planned rewrite without touching any file.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithOutput sets where command output (plans, catalog listings) is printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}
