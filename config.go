package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PURPLEAIR"

// Config is the exporter configuration, read from flags and PURPLEAIR_* env vars.
type Config struct {
	ListenAddr   string
	ReadInterval time.Duration
	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	Live         bool
	Sensors      []string
	Parallel     int

	LogLevel  string
	LogFormat string

	KafkaBrokers []string
	KafkaTopic   string
}

func bindFlags(flags *pflag.FlagSet) {
	flags.String("listen-address", ":8080", "The address to listen on for HTTP requests.")
	flags.Duration("read-int", 30*time.Second, "time interval between sensor reads")
	flags.Duration("timeout", 5*time.Second, "HTTP timeout for a single sensor request")
	flags.Int("retries", 5, "max number of tries in case of network errors")
	flags.Duration("retry-delay", time.Second, "pause between retries")
	flags.Bool("live", false, "read the latest 2s sample instead of the 2 minute average")
	flags.StringSlice("sensor", nil, "sensor address (host, host:port or URL), repeatable")
	flags.Int("parallel", 4, "max number of sensors read concurrently")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")
	flags.StringSlice("kafka-brokers", nil, "publish readings to these Kafka brokers")
	flags.String("kafka-topic", "purpleair-readings", "Kafka topic for readings")
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}
	return v, nil
}

// LoadConfig resolves the configuration and validates it.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenAddr:   v.GetString("listen-address"),
		ReadInterval: v.GetDuration("read-int"),
		Timeout:      v.GetDuration("timeout"),
		Retries:      v.GetInt("retries"),
		RetryDelay:   v.GetDuration("retry-delay"),
		Live:         v.GetBool("live"),
		Sensors:      splitList(v.GetStringSlice("sensor")),
		Parallel:     v.GetInt("parallel"),
		LogLevel:     v.GetString("log-level"),
		LogFormat:    v.GetString("log-format"),
		KafkaBrokers: splitList(v.GetStringSlice("kafka-brokers")),
		KafkaTopic:   v.GetString("kafka-topic"),
	}

	if len(cfg.Sensors) == 0 {
		return nil, errors.New("at least one sensor address is required (--sensor or PURPLEAIR_SENSOR)")
	}
	if cfg.ReadInterval <= 0 {
		return nil, errors.New("read-int must be positive")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if cfg.Retries < 1 {
		return nil, errors.New("retries must be at least 1")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.Errorf("unknown log-format %q", cfg.LogFormat)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("kafka-topic is required when kafka-brokers is set")
	}
	return cfg, nil
}

// splitList flattens comma separated entries, env vars arrive as one string.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
