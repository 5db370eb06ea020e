package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, source string) kong.Resolver {
	t.Helper()

	loader := resolve(baseConfig)

	resolver, err := loader(strings.NewReader(source))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return resolver
}

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	value, err := r.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: name},
	})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return value
}

func TestResolve_FlatKeys(t *testing.T) {
	r := loadConfig(t, "log-level: debug\nlog-format: text\n")

	if got := resolveFlag(t, r, "log-level"); got != "debug" {
		t.Errorf("log-level = %v, want debug", got)
	}

	if got := resolveFlag(t, r, "log-format"); got != "text" {
		t.Errorf("log-format = %v, want text", got)
	}

	if got := resolveFlag(t, r, "log-caller"); got != nil {
		t.Errorf("log-caller = %v, want nil", got)
	}
}

func TestResolve_UnderscoreKeys(t *testing.T) {
	// YAML authors tend to use underscores; both forms configure the flag.
	r := loadConfig(t, "log_level: warn\n")

	if got := resolveFlag(t, r, "log-level"); got != "warn" {
		t.Errorf("log-level = %v, want warn", got)
	}
}

func TestResolve_CommandSections(t *testing.T) {
	r := loadConfig(t, "check:\n  fold: true\neval:\n  kind: observable\n")

	if got := resolveFlag(t, r, "check-fold"); got != true {
		t.Errorf("check-fold = %v, want true", got)
	}

	if got := resolveFlag(t, r, "eval-kind"); got != "observable" {
		t.Errorf("eval-kind = %v, want observable", got)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	// Kong parses flag values from strings, so numeric YAML scalars must
	// resolve as their string forms.
	r := loadConfig(t, "fmt:\n  indent: 4\n")

	if got := resolveFlag(t, r, "fmt-indent"); got != "4" {
		t.Errorf("fmt-indent = %v (%T), want \"4\"", got, got)
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	// A malformed file resolves nothing rather than failing the invocation.
	r := loadConfig(t, ":\n\t- not yaml {{{")

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("log-level = %v, want nil", got)
	}
}

func TestFlatten(t *testing.T) {
	got := flatten(map[string]any{
		"log-level": "info",
		"check": map[string]any{
			"fold": true,
		},
		"fmt": map[string]any{
			"indent": int64(2),
		},
	})

	want := map[string]any{
		"log-level":  "info",
		"check-fold": true,
		"fmt-indent": "2",
	}

	if len(got) != len(want) {
		t.Fatalf("flatten() = %v, want %v", got, want)
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("flatten()[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int64", int64(42), "42"},
		{"uint64", uint64(7), "7"},
		{"float64", float64(0.5), "0.5"},
		{"string", "text", "text"},
		{"bool", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeValue(tt.value); got != tt.want {
				t.Errorf("normalizeValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue_Slice(t *testing.T) {
	got, ok := normalizeValue([]any{int64(1), "a"}).([]any)
	if !ok {
		t.Fatal("normalizeValue(slice) did not return a slice")
	}

	if len(got) != 2 || got[0] != "1" || got[1] != "a" {
		t.Errorf("normalizeValue(slice) = %v, want [1 a]", got)
	}
}
