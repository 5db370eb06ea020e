package model

import (
	"github.com/ardnew/mexl/lang"
	"github.com/ardnew/mexl/log"
)

// Option configures a Session or Calc.
type Option func(config) config

// config holds the effective settings of a session or calculator.
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

// langOpts translates the configuration for the expression engine.
func (c config) langOpts() []lang.Option {
	return []lang.Option{
		lang.WithLogger(c.logger),
		lang.WithCaseFold(c.fold),
	}
}

// WithCaseFold matches expression identifiers against entity ids without
// regard to letter case.
func WithCaseFold(fold bool) Option {
	return func(cfg config) config {
		cfg.fold = fold

		return cfg
	}
}

// WithLogger routes loading and evaluation diagnostics to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(cfg config) config {
		cfg.logger = logger

		return cfg
	}
}
