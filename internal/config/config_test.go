package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8931", cfg.Server.URL)
	assert.Equal(t, "sse", cfg.Server.Transport)
	assert.Equal(t, 3, cfg.Run.Trials)
	assert.Equal(t, 2, cfg.Run.SettleSeconds)
	assert.Equal(t, []string{"verify", "i'm not a robot", "submit"}, cfg.Run.Intents)
	assert.Equal(t, []string{"pass"}, cfg.Run.PassPhrases)
	assert.False(t, cfg.Verify.Enabled)
	assert.Equal(t, "local", cfg.Artifacts.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8000", cfg.Demo.Addr)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webtrial.yaml")
	content := `
server:
  url: http://mcp.example:9000
  transport: http
run:
  trials: 10
  intents:
    - press me
verify:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://mcp.example:9000", cfg.Server.URL)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 10, cfg.Run.Trials)
	assert.Equal(t, []string{"press me"}, cfg.Run.Intents)
	assert.True(t, cfg.Verify.Enabled)
	// Unset keys keep their defaults.
	assert.Equal(t, []string{"pass"}, cfg.Run.PassPhrases)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEBTRIAL_SERVER_TRANSPORT", "http")
	t.Setenv("WEBTRIAL_RUN_TRIALS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 7, cfg.Run.Trials)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server url", func(c *Config) { c.Server.URL = "" }},
		{"bad transport", func(c *Config) { c.Server.Transport = "websocket" }},
		{"zero trials", func(c *Config) { c.Run.Trials = 0 }},
		{"negative settle", func(c *Config) { c.Run.SettleSeconds = -1 }},
		{"no intents", func(c *Config) { c.Run.Intents = nil }},
		{"no pass phrases", func(c *Config) { c.Run.PassPhrases = nil }},
		{"bad backend", func(c *Config) { c.Artifacts.Backend = "ftp" }},
		{"s3 without bucket", func(c *Config) {
			c.Artifacts.Enabled = true
			c.Artifacts.Backend = "s3"
			c.Artifacts.S3Bucket = ""
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
