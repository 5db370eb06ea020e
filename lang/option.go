package lang

import "github.com/ardnew/mexl/log"

// Option configures a single parse.
type Option func(config) config

// config holds the effective settings of one parse.
type config struct {
	logger log.Logger
	fold   bool
}

// apply returns the result of applying each of the given options to config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithCaseFold matches identifiers against symbol table ids without regard
// to letter case. Category labels in disambiguated references are always
// matched exactly.
func WithCaseFold(fold bool) Option {
	return func(cfg config) config {
		cfg.fold = fold

		return cfg
	}
}

// WithLogger routes resolution diagnostics to the given logger. Parses are
// silent by default.
func WithLogger(logger log.Logger) Option {
	return func(cfg config) config {
		cfg.logger = logger

		return cfg
	}
}
