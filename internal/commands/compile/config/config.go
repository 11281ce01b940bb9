package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/artuross/tiny-compiler/internal/commands/compile/exec"
	"github.com/rs/zerolog"
)

type Flagger interface {
	String(name string) string
	Int(name string) int
	Bool(name string) bool
}

type Config struct {
	Files     []string
	Jobs      int
	LogLevel  zerolog.Level
	OutputDir string
	Trace     bool
}

func Read(flags Flagger, args []string, getEnv func(string) string) (*Config, error) {
	files := args
	if len(files) == 0 {
		files = []string{exec.StdinFile}
	}

	stdinCount := 0
	for _, file := range files {
		if file == exec.StdinFile {
			stdinCount++
		}
	}

	if stdinCount > 1 {
		return nil, fmt.Errorf("stdin (%s) may be given at most once", exec.StdinFile)
	}

	jobs := flags.Int("jobs")
	if jobs < 1 {
		return nil, fmt.Errorf("flag --jobs must be at least 1, got %d", jobs)
	}

	logLevel, err := zerolog.ParseLevel(strings.ToLower(flags.String("log-level")))
	if err != nil {
		return nil, fmt.Errorf("flag --log-level: %w", err)
	}

	// tracing is on when asked for explicitly or when an OTLP endpoint is configured
	trace := flags.Bool("trace") || getEnv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""

	cfg := Config{
		Files:     files,
		Jobs:      jobs,
		LogLevel:  logLevel,
		OutputDir: flags.String("output-dir"),
		Trace:     trace,
	}

	return &cfg, nil
}

func Print(w io.Writer, cfg *Config) {
	fmt.Fprintln(w, "Running with config:")
	fmt.Fprintf(w, "  Files: %s\n", strings.Join(cfg.Files, ", "))
	fmt.Fprintf(w, "  Jobs: %d\n", cfg.Jobs)
	fmt.Fprintf(w, "  Log Level: %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  Output Dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(w, "  Trace: %t\n", cfg.Trace)
}
