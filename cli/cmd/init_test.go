package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/goccy/go-yaml"
)

// initContext builds a minimal kong context carrying the config path var and
// a few representative flags with default values.
func initContext(t *testing.T, confPath string) context.Context {
	t.Helper()

	var grammar struct {
		LogLevel  string `default:"info" help:"Logging level." name:"log-level"`
		LogFormat string `default:"json" help:"Logging format." name:"log-format"`
		Hidden    string `default:"x" help:"Hidden flag." hidden:"" name:"secret"`
	}

	parser, err := kong.New(&grammar,
		kong.Vars{ConfigIdentifier: confPath},
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New() = %v", err)
	}

	ktx, err := parser.Parse([]string{})
	if err != nil {
		t.Fatalf("parser.Parse() = %v", err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		force   bool
		wantErr error
	}{
		{
			name:  "create_new_config",
			force: false,
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			ctx := initContext(t, confPath)

			i := &Init{Force: tt.force}

			err := i.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatalf("ReadFile(%q) = %v", confPath, err)
			}

			var raw map[string]any
			if err := yaml.Unmarshal(data, &raw); err != nil {
				t.Fatalf("config is not valid YAML: %v", err)
			}

			if raw["log-level"] != "info" {
				t.Errorf("config log-level = %v, want info", raw["log-level"])
			}

			// Hidden flags are left out of the generated file.
			if strings.Contains(string(data), "secret") {
				t.Errorf("config contains hidden flag:\n%s", data)
			}
		})
	}
}

func TestInitBuildConfig_SkipsHelpFlags(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := initContext(t, confPath)

	i := &Init{}

	for _, item := range i.buildConfig(ctx) {
		key, ok := item.Key.(string)
		if !ok {
			t.Fatalf("config key %v is not a string", item.Key)
		}

		if strings.HasPrefix(key, "help") {
			t.Errorf("buildConfig() includes %q", key)
		}
	}
}
