package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/shelfcheck/api"
	"github.com/use-agent/shelfcheck/catalog"
	"github.com/use-agent/shelfcheck/config"
	"github.com/use-agent/shelfcheck/metrics"
	"github.com/use-agent/shelfcheck/verifier"
	"github.com/use-agent/shelfcheck/webhook"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shelfcheck",
		Short:        "Serve the product catalog and verify rendered product tables",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		newVerifyCmd(),
		newProductsCmd(),
	)
	return root
}

func runServe() error {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, os.Stdout)
	slog.Info("shelfcheck starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"catalog", cfg.Catalog.Path,
	)

	// ── 3. Initialise metrics, catalog reader and verifier ──────────
	m := metrics.New()
	cr := catalog.NewReader(cfg.Catalog.Path, m)

	v, err := newVerifier(cfg, m)
	if err != nil {
		slog.Error("failed to initialise verifier", "error", err)
		return err
	}
	if cfg.Webhook.URL != "" {
		v.SetNotifier(webhook.VerifyNotifier(cfg.Webhook.URL, cfg.Webhook.Secret))
		slog.Info("webhook delivery enabled", "url", cfg.Webhook.URL)
	}

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(cfg, cr, v, m, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	// Verifications can run for up to navigation + selector timeouts.
	grace := cfg.Verify.NavigationTimeout + cfg.Verify.SelectorTimeout
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("shelfcheck stopped")
	return nil
}

// newVerifier wires the rod launcher and the expected dataset into a Verifier.
func newVerifier(cfg *config.Config, m *metrics.Metrics) (*verifier.Verifier, error) {
	vcfg := verifier.Config{
		TableSelector:     cfg.Verify.TableSelector,
		NavigationTimeout: cfg.Verify.NavigationTimeout,
		SelectorTimeout:   cfg.Verify.SelectorTimeout,
	}
	if cfg.Verify.ExpectedPath != "" {
		expected, err := verifier.LoadExpected(cfg.Verify.ExpectedPath)
		if err != nil {
			return nil, err
		}
		vcfg.Expected = expected
		slog.Info("expected dataset loaded", "path", cfg.Verify.ExpectedPath, "rows", len(expected))
	}

	return verifier.New(vcfg, verifier.NewRodLauncher(cfg.Browser), m), nil
}

// initLogger configures slog based on the LogConfig. Output goes to out
// unless a log file is configured, which is rotated by lumberjack.
func initLogger(cfg config.LogConfig, out io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}
