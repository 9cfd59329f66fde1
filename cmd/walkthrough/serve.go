package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
	httpAdapter "github.com/aretw0/walkthrough/pkg/adapters/http"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/observability"
	"github.com/aretw0/walkthrough/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP control surface",
	Long:  `Serves mounted modules as JSON endpoints with an SSE snapshot stream and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		logger, err := loggerFrom(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager(logger)

		mgr := session.NewManager(file.New(dir),
			session.WithLogger(logger),
			session.WithHooks(streams.Hooks),
			session.WithHooks(func(string, domain.Module) domain.LifecycleHooks { return metrics.Hooks() }),
			session.WithMountCallbacks(
				func(*session.Mount) { metrics.MountsActive.Inc() },
				func(*session.Mount) { metrics.MountsActive.Dec() },
			),
		)
		defer mgr.Close()

		handler := httpAdapter.NewHandler(mgr,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:              "127.0.0.1:" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting walkthrough server", "addr", srv.Addr, "dir", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx, stop := cli.SignalContext(context.Background())
		defer stop()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-sigCtx.Done():
			logger.Info("start shutdown", "cause", context.Cause(sigCtx))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// SSE streams never finish on their own; end them first.
			for _, mt := range mgr.List() {
				streams.Close(mt.ID)
			}
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("walkthrough server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
