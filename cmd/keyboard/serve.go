package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	httpAdapter "github.com/anaradzetski/keyboard/pkg/adapters/http"
	"github.com/anaradzetski/keyboard/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [menu.yaml]",
	Short: "Start the HTTP API",
	Long: `Serves the menu as a JSON API. Each call returns the replies it produced so a
bot process can forward them to the chat platform. /metrics exposes Prometheus metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler, err := a.serveHandler(ctx)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              a.cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			a.logger.Info("Keyboard server listening", "addr", srv.Addr, "menu", a.cfg.Menu)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			a.logger.Info("Shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			a.logger.Info("Keyboard server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
}

// serveHandler builds the API, with /metrics mounted next to it when enabled.
func (a *app) serveHandler(ctx context.Context) (http.Handler, error) {
	doc, acts, err := a.load()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	var extra []keyboard.Option
	if a.cfg.HTTP.Metrics {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := observability.NewMetrics(reg, doc.Settings.Name)
		if err != nil {
			return nil, err
		}
		extra = append(extra, keyboard.WithLifecycleHooks(m.Hooks()))
	}

	kb, err := a.engine(ctx, doc, acts, capture.New(capture.WithoutHistory()), extra...)
	if err != nil {
		return nil, err
	}
	api, err := httpAdapter.NewHandler(kb, httpAdapter.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/", api)
	if a.cfg.HTTP.Metrics {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return mux, nil
}
