package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"./..."}, cfg.Directories)
	assert.Equal(t, models.DefaultOutputFile, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"relay.yaml": `directories: [./api/..., ./billing]
module: example.com/shop
output: client_gen.go
openapi:
  file: docs/api.yaml
  title: Shop
  servers: [https://api.example.com]
verbose: true
`,
		"unknown.yaml": "directorys: [./api]\n",
		"empty.yaml":   "",
		"broken.yaml":  "directories: [\n",
	})

	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(filepath.Join(dir, "relay.yaml"), &cfg))
	assert.Equal(t, []string{"./api/...", "./billing"}, cfg.Directories)
	assert.Equal(t, "example.com/shop", cfg.Module)
	assert.Equal(t, "client_gen.go", cfg.Output)
	assert.Equal(t, "docs/api.yaml", cfg.OpenAPI.File)
	assert.Equal(t, "Shop", cfg.OpenAPI.Title)
	assert.Equal(t, []string{"https://api.example.com"}, cfg.OpenAPI.Servers)
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	require.NoError(t, LoadConfigFile(filepath.Join(dir, "empty.yaml"), &cfg))
	assert.Equal(t, DefaultConfig(), cfg)

	err := LoadConfigFile(filepath.Join(dir, "unknown.yaml"), &cfg)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	err = LoadConfigFile(filepath.Join(dir, "broken.yaml"), &cfg)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	err = LoadConfigFile(filepath.Join(dir, "missing.yaml"), &cfg)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"no directories", func(c *Config) { c.Directories = nil }, "Directories is required"},
		{"empty output", func(c *Config) { c.Output = "" }, "Output is required"},
		{"output not go", func(c *Config) { c.Output = "client.txt" }, "Output must end with .go"},
		{"output is a path", func(c *Config) { c.Output = "gen/client.go" }, "Output must be a file name"},
		{"bad server", func(c *Config) { c.OpenAPI.Servers = []string{"not a url"} }, "OpenAPI.Servers[0] must be a URL"},
		{"bad openapi file", func(c *Config) { c.OpenAPI.File = "api.txt" }, "OpenAPI.File"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUsage)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		Directories: []string{" ./api ", "", "  "},
		Module:      " example.com/x ",
		Output:      " gen.go\n",
		OpenAPI:     OpenAPIConfig{File: " api.yaml "},
	}
	cfg.Normalize()
	assert.Equal(t, []string{"./api"}, cfg.Directories)
	assert.Equal(t, "example.com/x", cfg.Module)
	assert.Equal(t, "gen.go", cfg.Output)
	assert.Equal(t, "api.yaml", cfg.OpenAPI.File)
}
