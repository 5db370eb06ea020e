// Package cli contains the command line interface for mexl.
//
// # Commands
//
//   - check: load model file(s), validate every expression attribute, and
//     render the aggregate report (the default command)
//   - eval: evaluate one expression string against a loaded model under a
//     selected owner kind
//   - fmt: rewrite a model as normalized YAML
//   - repl: evaluate expressions interactively with identifier completion
//   - init: write a default configuration file from current flag values
//
// Model files are named directly or found through a search path composed
// from --path flags and the MEXL_PATH environment variable.
//
// # Configuration
//
// Flags can be persisted in a YAML configuration file under the user config
// directory (e.g., ~/.config/mexl/config.yaml):
//
//	check:
//	  fold: true
//	log-level: debug
//	log-format: text
//
// Command-line flags override config file values. The init command generates
// this file from the current invocation's flags.
//
// # Logging options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: include caller information
//   - --log-pretty: colorized pretty printing for text output
//
// # Profiling options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: ~/.cache/mexl/pprof)
package cli
