package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/webtrial/internal/demoapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the verification demo page the harness can target",
	Long: `Start the built-in verification service: a challenge page with an
invisible-reCAPTCHA verify button, a token verification endpoint and a
metrics scoreboard. Point the harness at it with
"webtrial run --url http://<addr>/recaptcha --verify-url http://<addr>".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().String("site-key", "", "reCAPTCHA site key (overrides config)")
	serveCmd.Flags().String("secret", "", "reCAPTCHA secret for siteverify calls (overrides config)")
	serveCmd.Flags().String("siteverify-url", "", "Upstream siteverify endpoint (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := stringFlagOr(cmd, "addr", cfg.Demo.Addr)
	app := demoapp.NewApp(demoapp.Config{
		SiteKey:       stringFlagOr(cmd, "site-key", cfg.Demo.SiteKey),
		Secret:        stringFlagOr(cmd, "secret", cfg.Demo.Secret),
		SiteverifyURL: stringFlagOr(cmd, "siteverify-url", cfg.Demo.SiteverifyURL),
	}, log)

	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "verification demo listening", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down", map[string]interface{}{"addr": addr})
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
