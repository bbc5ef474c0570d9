package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alepar/purpleair/exporter"
	"github.com/alepar/purpleair/exporter/kafka"
	"github.com/alepar/purpleair/purpleair/lan"
)

const exporterName = "purpleair_exporter"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           exporterName,
		Short:         "Prometheus exporter for PurpleAir sensors on the local network",
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(v)
			if err != nil {
				return err
			}
			if err := initLogging(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.SetVersionTemplate(version.Print(exporterName) + "\n")
	bindFlags(cmd.Flags())
	return cmd
}

func initLogging(cfg *Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}
	return nil
}

func run(ctx context.Context, cfg *Config) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(exporterName),
	)
	metrics := exporter.NewMetrics(registry)

	logger := log.StandardLogger()
	scanner := &lan.Scanner{
		Addrs:      cfg.Sensors,
		Live:       cfg.Live,
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	}

	poller := &exporter.Poller{
		Scanner:  scanner,
		Metrics:  metrics,
		Interval: cfg.ReadInterval,
		Parallel: cfg.Parallel,
		Logger:   logger,
	}
	if len(cfg.KafkaBrokers) > 0 {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := writer.Close(); err != nil {
				log.Errorf("kafka writer close error: %s", err)
			}
		}()
		poller.Publisher = writer
		log.Infof("publishing readings to kafka topic %s", cfg.KafkaTopic)
	}

	mux := http.NewServeMux()
	// Expose the registered metrics via HTTP.
	mux.Handle("/metrics", promhttp.HandlerFor(
		registry,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		log.Infof("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()

	err := poller.Run(ctx)
	log.Info("shutting down")
	if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil {
		log.Errorf("http server shutdown error: %s", shutdownErr)
	}
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
