package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hosecat/hose/pkg/hose"
	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/metric"
	"github.com/hosecat/hose/pkg/hose/options"
)

func newStreamCommand(flags *rootFlags) *cobra.Command {
	var rawOutput bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Tail the firehose to stdout, one JSON value per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}

			return runStream(cmd, cfg, flags.verbose, rawOutput)
		},
	}

	cmd.Flags().BoolVar(&rawOutput, "raw", false, "print every value, not just activities")

	return cmd
}

func runStream(cmd *cobra.Command, cfg *Config, verbose, rawOutput bool) error {
	logger := newLogger(verbose)

	metrics := metric.NewMetrics()
	if cfg.MetricsListen != "" {
		if err := serveMetrics(cfg.MetricsListen, metrics); err != nil {
			return err
		}
		logger.Info("metrics listening", "addr", cfg.MetricsListen)
	}

	opts := &options.StreamOptions{
		Endpoint: cfg.Endpoint,
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   logger,
		Metrics:  metrics,
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = &cfg.UserAgent
	}
	if cfg.IdleTimeout > 0 {
		opts.IdleTimeout = &cfg.IdleTimeout
	}
	opts.BackfillMinutes = cfg.BackfillMinutes
	opts.Partition = cfg.Partition

	client := hose.NewClient(opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	client.On(hose.KindEnded, func(hose.Event) {
		close(done)
	})
	client.On(hose.KindError, func(ev hose.Event) {
		if streamErr, ok := ev.(events.StreamError); ok {
			logger.Error("stream error", "error", streamErr.Err)
		}
	})

	if rawOutput {
		client.On(hose.KindObject, func(ev hose.Event) {
			if obj, ok := ev.(events.Object); ok {
				fmt.Println(string(obj.Raw))
			}
		})
	} else {
		client.On(hose.KindActivity, func(ev hose.Event) {
			if activity, ok := ev.(events.Activity); ok {
				fmt.Println(string(activity.Raw))
			}
		})
	}

	if err := client.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("interrupted, closing stream")
		client.End()
	case <-done:
	}

	return nil
}

// serveMetrics exposes the stream instruments on addr.
func serveMetrics(addr string, metrics *metric.Metrics) error {
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()

	return nil
}
