// Package config loads pedcheck settings from defaults, an optional
// .pedcheck.yaml in the dataset root, PEDCHECK_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix       = "PEDCHECK_"
	DefaultFormat   = "text"
	DefaultModality = "dwi"
	DefaultHintKey  = "dir"
)

// FileNames are looked up in the dataset root when no --config is given.
var FileNames = []string{".pedcheck.yaml", ".pedcheck.yml"}

// Flags that select the configuration itself rather than a setting.
var nonSettingFlags = map[string]bool{
	"config": true,
	"help":   true,
}

type Config struct {
	Fix           bool     `koanf:"fix"`
	DryRun        bool     `koanf:"dry_run"`
	Format        string   `koanf:"format"`
	Quiet         bool     `koanf:"quiet"`
	FailOnInvalid bool     `koanf:"fail_on_invalid"`
	Verbose       bool     `koanf:"verbose"`
	Modality      string   `koanf:"modality"`
	HintKey       string   `koanf:"hint_key"`
	Exclude       []string `koanf:"exclude"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Format:   DefaultFormat,
		Modality: DefaultModality,
		HintKey:  DefaultHintKey,
	}
}

// Fixing reports whether inference should run. A dry run infers without
// writing, so it implies fixing.
func (c *Config) Fixing() bool {
	return c.Fix || c.DryRun
}

// Load resolves the configuration for a dataset at root. An explicit cfgFile
// must exist; otherwise FileNames are tried in root. Only flags that were
// explicitly set override lower layers.
func Load(root, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"fix":             defaults.Fix,
		"dry_run":         defaults.DryRun,
		"format":          defaults.Format,
		"quiet":           defaults.Quiet,
		"fail_on_invalid": defaults.FailOnInvalid,
		"verbose":         defaults.Verbose,
		"modality":        defaults.Modality,
		"hint_key":        defaults.HintKey,
		"exclude":         []string{},
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	fileUsed, err := findConfigFile(root, cfgFile)
	if err != nil {
		return nil, err
	}
	if fileUsed != "" {
		if err := k.Load(file.Provider(fileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", fileUsed, err)
		}
	}

	// PEDCHECK_HINT_KEY -> hint_key; PEDCHECK_EXCLUDE is comma separated.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "exclude" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || nonSettingFlags[f.Name] {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = fileUsed
	cfg.Modality = strings.TrimSpace(cfg.Modality)
	cfg.HintKey = strings.TrimSpace(cfg.HintKey)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would make discovery or inference meaningless.
func (c *Config) Validate() error {
	if c.Modality == "" {
		return fmt.Errorf("modality must not be empty")
	}
	if strings.ContainsAny(c.Modality, `/\*?[`) {
		return fmt.Errorf("modality %q must be a plain directory name", c.Modality)
	}
	if c.HintKey == "" {
		return fmt.Errorf("hint_key must not be empty")
	}
	return nil
}

func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func findConfigFile(root, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("failed to access config file %q: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range FileNames {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}
