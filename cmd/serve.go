package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dashboard"
	"github.com/KaramelBytes/antioquia-dashboard/internal/observability"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := ":8080"
		if cfg != nil && cfg.HTTPAddr != "" {
			addr = cfg.HTTPAddr
		}
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		qopt, err := qualityOptions()
		if err != nil {
			return err
		}
		metrics := observability.NewMetrics()
		src := datasetLoader()

		start := time.Now()
		t, err := src.Load()
		metrics.ObserveLoad(time.Since(start), t.Len(), err)
		if err != nil {
			// Keep serving so /readyz can report the failure.
			logger.Error("dataset load failed", "path", src.Path(), "error", err)
		} else {
			logger.Info("dataset loaded", "path", src.Path(), "records", t.Len(), "duration", time.Since(start))
		}

		opts := dashboard.DefaultOptions()
		opts.Name = filepath.Base(src.Path())
		opts.TopN = topN()
		opts.Risk = riskStrategy()
		opts.RiskWindowYears = riskWindow()
		opts.Quality = qopt
		if err := opts.Risk.Validate(); err != nil {
			return err
		}
		srv := dashboard.NewServer(addr, src, opts, logger, metrics)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
		}
		logger.Info("shutting down")

		timeout := 10 * time.Second
		if cfg != nil && cfg.ShutdownTimeoutSec > 0 {
			timeout = time.Duration(cfg.ShutdownTimeoutSec) * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (overrides config)")
}
