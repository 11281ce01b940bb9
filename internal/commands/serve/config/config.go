package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Flagger interface {
	String(name string) string
	Duration(name string) time.Duration
	Bool(name string) bool
}

type Config struct {
	Addr         string
	LogLevel     zerolog.Level
	PingInterval time.Duration
	Trace        bool
}

func Read(flags Flagger, getEnv func(string) string) (*Config, error) {
	addr := flags.String("addr")
	if addr == "" {
		return nil, fmt.Errorf("flag --addr is required")
	}

	pingInterval := flags.Duration("ping-interval")
	if pingInterval < 0 {
		return nil, fmt.Errorf("flag --ping-interval must not be negative, got %s", pingInterval)
	}

	logLevel, err := zerolog.ParseLevel(strings.ToLower(flags.String("log-level")))
	if err != nil {
		return nil, fmt.Errorf("flag --log-level: %w", err)
	}

	cfg := Config{
		Addr:         addr,
		LogLevel:     logLevel,
		PingInterval: pingInterval,
		Trace:        flags.Bool("trace") || getEnv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
	}

	return &cfg, nil
}

func Print(w io.Writer, cfg *Config) {
	fmt.Fprintln(w, "Running with config:")
	fmt.Fprintf(w, "  Addr: %s\n", cfg.Addr)
	fmt.Fprintf(w, "  Log Level: %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  Ping Interval: %s\n", cfg.PingInterval)
	fmt.Fprintf(w, "  Trace: %t\n", cfg.Trace)
}
