// Package config loads minisql's CLI configuration: output format and how
// many diagnostics to show per stage before truncating.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is minisql's CLI-level configuration, loaded from (in ascending
// priority) built-in defaults, minisql.yaml, MINISQL_* environment
// variables, and command-line flags.
type Config struct {
	OutputFormat   string `koanf:"output_format"`
	MaxDiagnostics int    `koanf:"max_diagnostics"`
	Verbose        bool   `koanf:"verbose"`
	ShowTree       bool   `koanf:"show_tree"`
	HistoryFile    string `koanf:"history_file"`
}

func defaults() *Config {
	return &Config{
		OutputFormat:   "text",
		MaxDiagnostics: 20,
		HistoryFile:    ".minisql_history",
	}
}

// Load builds a Config from defaults, an optional config file, environment
// variables prefixed MINISQL_, and any CLI flags the caller has already
// parsed into flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	def := defaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"output_format":   def.OutputFormat,
		"max_diagnostics": def.MaxDiagnostics,
		"history_file":    def.HistoryFile,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		for _, candidate := range []string{"minisql.yaml", "minisql.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("MINISQL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MINISQL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "output" {
				key = "output_format"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
