package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses config files
// written in YAML.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// The YAML structure is converted as follows:
//   - Top-level scalar keys become flag values, matched against flag names
//     with hyphens or underscores interchangeable (e.g., either "log-level"
//     or "log_level" configures --log-level)
//   - A top-level mapping keyed by a command name prefixes its children with
//     the command name, configuring that command's flags (e.g., "check:
//     fold: true" configures check --fold)
//   - Numbers are passed to Kong as strings for parsing
//
// Example config file:
//
//	log-level: debug
//	log-format: text
//	check:
//	  fold: true
//
// Command-line flags override config file values. A file that does not parse
// as YAML resolves nothing rather than failing the whole invocation; the
// name argument is accepted for symmetry with other loaders and reserved for
// future sectioning.
func resolve(string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		return config(flatten(raw)), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys
	// may use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten converts a decoded YAML document into a flat flag-name map. Nested
// mappings are flattened with a hyphen separator so a command section's keys
// address that command's flags.
func flatten(raw map[string]any) map[string]any {
	result := make(map[string]any, len(raw))
	flattenInto(result, "", raw)

	return result
}

func flattenInto(result map[string]any, prefix string, raw map[string]any) {
	for key, value := range raw {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			flattenInto(result, name, v)

		default:
			result[name] = normalizeValue(v)
		}
	}
}

// normalizeValue converts decoded YAML scalars into the representations Kong
// expects. Kong requires numbers as strings for parsing.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = normalizeValue(elem)
		}

		return out
	default:
		return v
	}
}
