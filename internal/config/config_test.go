package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("pedcheck", pflag.ContinueOnError)
	flags.Bool("fix", false, "")
	flags.Bool("dry-run", false, "")
	flags.String("format", DefaultFormat, "")
	flags.Bool("fail-on-invalid", false, "")
	flags.String("modality", DefaultModality, "")
	flags.String("hint-key", DefaultHintKey, "")
	flags.StringSlice("exclude", nil, "")
	flags.String("config", "", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "", newTestFlags())
	require.NoError(t, err)

	assert.False(t, cfg.Fix)
	assert.False(t, cfg.Fixing())
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultModality, cfg.Modality)
	assert.Equal(t, DefaultHintKey, cfg.HintKey)
	assert.Empty(t, cfg.Exclude)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoadPrecedence(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".pedcheck.yaml"), `
fix: true
format: json
modality: fmap
hint_key: acq
exclude:
  - derivatives/
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(root, "", newTestFlags())
		require.NoError(t, err)
		assert.True(t, cfg.Fix)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "fmap", cfg.Modality)
		assert.Equal(t, "acq", cfg.HintKey)
		assert.Equal(t, []string{"derivatives/"}, cfg.Exclude)
		assert.Equal(t, filepath.Join(root, ".pedcheck.yaml"), cfg.FileUsed)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PEDCHECK_FORMAT", "table")
		t.Setenv("PEDCHECK_EXCLUDE", "sourcedata/, tmp/")
		cfg, err := Load(root, "", newTestFlags())
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.Format)
		assert.Equal(t, []string{"sourcedata/", "tmp/"}, cfg.Exclude)
	})

	t.Run("explicit flags override env", func(t *testing.T) {
		t.Setenv("PEDCHECK_FORMAT", "table")
		flags := newTestFlags()
		require.NoError(t, flags.Set("format", "JSONL"))
		require.NoError(t, flags.Set("hint-key", "direction"))
		cfg, err := Load(root, "", flags)
		require.NoError(t, err)
		assert.Equal(t, "jsonl", cfg.Format)
		assert.Equal(t, "direction", cfg.HintKey)
		assert.True(t, cfg.Fix, "unset flags do not reset file values")
	})
}

func TestLoadExplicitConfigFile(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, other, "dry_run: true\n")

	cfg, err := Load(root, other, newTestFlags())
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Fixing(), "dry run implies fixing")
	assert.Equal(t, other, cfg.FileUsed)

	_, err = Load(root, filepath.Join(root, "missing.yaml"), newTestFlags())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".pedcheck.yml"), "fix: [unterminated\n")

	_, err := Load(root, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty modality", mutate: func(c *Config) { c.Modality = "" }, errSubstr: "modality must not be empty"},
		{name: "glob modality", mutate: func(c *Config) { c.Modality = "dw*" }, errSubstr: "plain directory name"},
		{name: "nested modality", mutate: func(c *Config) { c.Modality = "a/dwi" }, errSubstr: "plain directory name"},
		{name: "empty hint key", mutate: func(c *Config) { c.HintKey = "" }, errSubstr: "hint_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
