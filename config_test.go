package main

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(flags)
	require.NoError(t, flags.Parse(args))

	v, err := newViper(flags)
	require.NoError(t, err)
	return LoadConfig(v)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadWithArgs(t, "--sensor", "192.168.1.50")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.ReadInterval)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.False(t, cfg.Live)
	assert.Equal(t, []string{"192.168.1.50"}, cfg.Sensors)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "purpleair-readings", cfg.KafkaTopic)
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := loadWithArgs(t,
		"--sensor", "10.0.0.2", "--sensor", "10.0.0.3,10.0.0.4",
		"--listen-address", ":9090",
		"--read-int", "1m",
		"--live",
		"--log-format", "json",
		"--kafka-brokers", "broker1:9092,broker2:9092",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3", "10.0.0.4"}, cfg.Sensors)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, time.Minute, cfg.ReadInterval)
	assert.True(t, cfg.Live)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PURPLEAIR_SENSOR", "10.0.0.2,10.0.0.3")
	t.Setenv("PURPLEAIR_READ_INT", "10s")
	t.Setenv("PURPLEAIR_RETRIES", "2")
	t.Setenv("PURPLEAIR_LIVE", "true")

	cfg, err := loadWithArgs(t)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.Sensors)
	assert.Equal(t, 10*time.Second, cfg.ReadInterval)
	assert.Equal(t, 2, cfg.Retries)
	assert.True(t, cfg.Live)
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("PURPLEAIR_LISTEN_ADDRESS", ":7070")

	cfg, err := loadWithArgs(t, "--sensor", "10.0.0.2", "--listen-address", ":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no sensors", nil, "sensor"},
		{"zero interval", []string{"--sensor", "a", "--read-int", "0s"}, "read-int"},
		{"zero timeout", []string{"--sensor", "a", "--timeout", "0s"}, "timeout"},
		{"no retries", []string{"--sensor", "a", "--retries", "0"}, "retries"},
		{"bad log format", []string{"--sensor", "a", "--log-format", "xml"}, "log-format"},
		{"kafka without topic", []string{"--sensor", "a", "--kafka-brokers", "b:9092", "--kafka-topic", ""}, "kafka-topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWithArgs(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInitLogging(t *testing.T) {
	assert.NoError(t, initLogging(&Config{LogLevel: "debug", LogFormat: "json"}))
	assert.Error(t, initLogging(&Config{LogLevel: "loud", LogFormat: "text"}))
}
