package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/config"
	"github.com/mj1618/webtrial/internal/logger"
	"github.com/mj1618/webtrial/internal/mcp"
)

// newInvoker dials the configured browser-automation server. A failed
// handshake here is the fatal startup condition: commands return the
// error without running anything else.
var newInvoker = func(ctx context.Context, cfg *config.Config, log logger.Logger) (mcp.Invoker, error) {
	c, err := mcp.Connect(ctx, mcp.Options{
		ServerURL: cfg.Server.URL,
		Transport: cfg.Server.Transport,
		Timeout:   cfg.Server.Timeout,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// addServerFlags registers the connection flags shared by every command
// that talks to the browser server.
func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "Browser-automation server URL (overrides config)")
	cmd.Flags().String("transport", "", "Server transport: sse, http (overrides config)")
}

// applyServerFlags folds explicit --server/--transport values into the
// loaded config.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.Server.URL = s
	}
	if tr, _ := cmd.Flags().GetString("transport"); tr != "" {
		cfg.Server.Transport = tr
	}
}

// stringFlagOr returns the flag value when the user set it, else fallback.
func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// intFlagOr returns the flag value when the user set it, else fallback.
func intFlagOr(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

// boolFlagOr returns the flag value when the user set it, else fallback.
func boolFlagOr(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}

// phraseList resolves a repeatable phrase flag against its config
// fallback, trimming whitespace and dropping blank entries.
func phraseList(cmd *cobra.Command, name string, fallback []string) []string {
	values := fallback
	if cmd.Flags().Changed(name) {
		values, _ = cmd.Flags().GetStringSlice(name)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
