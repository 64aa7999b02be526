package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/config"
	"github.com/mj1618/webtrial/internal/logger"
	"github.com/mj1618/webtrial/internal/output"
	"github.com/mj1618/webtrial/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "webtrial",
	Short: "Repeated-trial verification harness for browser challenge pages",
	Long:  "webtrial drives a challenge page through a remote browser-automation server: it clicks the verification control, reads the page verdict and aggregates pass/fail statistics over repeated trials.",
}

// cfg and log are initialized by PersistentPreRunE before any subcommand
// runs and shared across the package.
var (
	cfg *config.Config
	log logger.Logger
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: webtrial.yaml in the working directory)")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		if lf, _ := rootCmd.PersistentFlags().GetString("log-format"); lf != "" {
			cfg.Log.Format = lf
		}
		log = logger.NewLogrusLogger(cfg.Log.Level, cfg.Log.Format)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
