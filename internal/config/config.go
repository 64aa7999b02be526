package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all harness configuration.
type Config struct {
	Server    ServerConfig
	Target    TargetConfig
	Run       RunConfig
	Verify    VerifyConfig
	Output    OutputConfig
	History   HistoryConfig
	Artifacts ArtifactsConfig
	Log       LogConfig
	Demo      DemoConfig
}

// ServerConfig describes the remote MCP browser-automation server.
type ServerConfig struct {
	URL       string
	Transport string // "sse" or "http"
	Timeout   time.Duration
}

// TargetConfig describes the page the harness drives.
type TargetConfig struct {
	URL string
}

// RunConfig holds the trial-loop parameters.
type RunConfig struct {
	Trials        int
	SettleSeconds int
	Intents       []string
	PassPhrases   []string
	FailPhrases   []string
}

// VerifyConfig describes the side-channel verification service.
type VerifyConfig struct {
	URL     string
	Enabled bool
}

// OutputConfig holds artifact output locations.
type OutputConfig struct {
	Dir     string // CSV output directory
	DumpDir string // diagnostic snapshot dumps
}

// HistoryConfig holds run-history database settings.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// ArtifactsConfig holds blob-archive settings for run artifacts.
type ArtifactsConfig struct {
	Enabled  bool
	Backend  string // "local" or "s3"
	LocalDir string
	S3Bucket string
	S3Prefix string
	S3Region string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// DemoConfig configures the built-in verification demo service.
type DemoConfig struct {
	Addr          string
	SiteKey       string
	Secret        string
	SiteverifyURL string
}

// Load reads configuration from an explicit file (when path is non-empty),
// else from webtrial.yaml in the working directory, with WEBTRIAL_* env
// variables overriding file values and defaults filling the rest.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("webtrial")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WEBTRIAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.url", "http://localhost:8931")
	v.SetDefault("server.transport", "sse")
	v.SetDefault("server.timeout_seconds", 60)

	v.SetDefault("target.url", "http://127.0.0.1:8000/recaptcha")

	v.SetDefault("run.trials", 3)
	v.SetDefault("run.settle_seconds", 2)
	v.SetDefault("run.intents", []string{"verify", "i'm not a robot", "submit"})
	v.SetDefault("run.pass_phrases", []string{"pass"})
	v.SetDefault("run.fail_phrases", []string{"fail"})

	v.SetDefault("verify.url", "http://127.0.0.1:8000")
	v.SetDefault("verify.enabled", false)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.dump_dir", ".")

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "webtrial.db")

	v.SetDefault("artifacts.enabled", false)
	v.SetDefault("artifacts.backend", "local")
	v.SetDefault("artifacts.local_dir", "artifacts")
	v.SetDefault("artifacts.s3_bucket", "")
	v.SetDefault("artifacts.s3_prefix", "")
	v.SetDefault("artifacts.s3_region", "us-east-1")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("demo.addr", "127.0.0.1:8000")
	v.SetDefault("demo.site_key", "")
	v.SetDefault("demo.secret", "")
	v.SetDefault("demo.siteverify_url", "https://www.google.com/recaptcha/api/siteverify")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicit --config path that is missing or unreadable is an
			// error; the default lookup silently falls back to defaults.
			if path != "" {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config

	cfg.Server.URL = v.GetString("server.url")
	cfg.Server.Transport = v.GetString("server.transport")
	cfg.Server.Timeout = time.Duration(v.GetInt("server.timeout_seconds")) * time.Second

	cfg.Target.URL = v.GetString("target.url")

	cfg.Run.Trials = v.GetInt("run.trials")
	cfg.Run.SettleSeconds = v.GetInt("run.settle_seconds")
	cfg.Run.Intents = v.GetStringSlice("run.intents")
	cfg.Run.PassPhrases = v.GetStringSlice("run.pass_phrases")
	cfg.Run.FailPhrases = v.GetStringSlice("run.fail_phrases")

	cfg.Verify.URL = v.GetString("verify.url")
	cfg.Verify.Enabled = v.GetBool("verify.enabled")

	cfg.Output.Dir = v.GetString("output.dir")
	cfg.Output.DumpDir = v.GetString("output.dump_dir")

	cfg.History.Enabled = v.GetBool("history.enabled")
	cfg.History.Path = v.GetString("history.path")

	cfg.Artifacts.Enabled = v.GetBool("artifacts.enabled")
	cfg.Artifacts.Backend = v.GetString("artifacts.backend")
	cfg.Artifacts.LocalDir = v.GetString("artifacts.local_dir")
	cfg.Artifacts.S3Bucket = v.GetString("artifacts.s3_bucket")
	cfg.Artifacts.S3Prefix = v.GetString("artifacts.s3_prefix")
	cfg.Artifacts.S3Region = v.GetString("artifacts.s3_region")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	cfg.Demo.Addr = v.GetString("demo.addr")
	cfg.Demo.SiteKey = v.GetString("demo.site_key")
	cfg.Demo.Secret = v.GetString("demo.secret")
	cfg.Demo.SiteverifyURL = v.GetString("demo.siteverify_url")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if c.Server.Transport != "sse" && c.Server.Transport != "http" {
		return fmt.Errorf("server.transport must be \"sse\" or \"http\", got %q", c.Server.Transport)
	}
	if c.Run.Trials < 1 {
		return fmt.Errorf("run.trials must be at least 1, got %d", c.Run.Trials)
	}
	if c.Run.SettleSeconds < 0 {
		return fmt.Errorf("run.settle_seconds must not be negative")
	}
	if len(c.Run.Intents) == 0 {
		return fmt.Errorf("run.intents must not be empty")
	}
	if len(c.Run.PassPhrases) == 0 {
		return fmt.Errorf("run.pass_phrases must not be empty")
	}
	switch c.Artifacts.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("artifacts.backend must be \"local\" or \"s3\", got %q", c.Artifacts.Backend)
	}
	if c.Artifacts.Enabled && c.Artifacts.Backend == "s3" && c.Artifacts.S3Bucket == "" {
		return fmt.Errorf("artifacts.s3_bucket is required for the s3 backend")
	}
	return nil
}
