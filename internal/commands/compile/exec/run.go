package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/artuross/tiny-compiler/internal/log/semconv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrDuplicateOutput = errors.New("files write the same output file")

const (
	StdinFile = "-"

	outputExtension = ".c"
	stdinOutputName = "stdin"
)

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

type Config struct {
	Files     []string
	Jobs      int
	OutputDir string
}

type Executor struct {
	compiler Compiler
	stdin    io.Reader
	stdout   io.Writer
}

func NewExecutor(compiler Compiler, stdin io.Reader, stdout io.Writer) *Executor {
	return &Executor{
		compiler: compiler,
		stdin:    stdin,
		stdout:   stdout,
	}
}

// Run compiles every file independently, at most cfg.Jobs at a time. Without an output
// directory the results are written to stdout in the order the files were given, and
// nothing is written if any file fails.
func (e *Executor) Run(ctx context.Context, cfg Config) error {
	if cfg.OutputDir != "" {
		if err := checkOutputNames(cfg.Files); err != nil {
			return err
		}
	}

	outputs := make([]string, len(cfg.Files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)

	for index, file := range cfg.Files {
		g.Go(func() error {
			// a sibling already failed
			if err := ctx.Err(); err != nil {
				return err
			}

			output, err := e.compileFile(ctx, file)
			if err != nil {
				return fmt.Errorf("compile %s: %w", file, err)
			}

			if cfg.OutputDir == "" {
				outputs[index] = output
				return nil
			}

			path := filepath.Join(cfg.OutputDir, outputName(file))
			if err := os.WriteFile(path, []byte(output+"\n"), 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}

			zerolog.Ctx(ctx).Info().Str(semconv.File, file).Str("output", path).Msg("compiled")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		return nil
	}

	for _, output := range outputs {
		if output == "" {
			continue
		}

		if _, err := fmt.Fprintln(e.stdout, output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}

func (e *Executor) compileFile(ctx context.Context, file string) (string, error) {
	logger := zerolog.Ctx(ctx).With().Str(semconv.File, file).Logger()
	ctx = logger.WithContext(ctx)

	source, err := e.readSource(file)
	if err != nil {
		return "", err
	}

	logger.Debug().Msg("read source")

	return e.compiler.Compile(ctx, source)
}

func (e *Executor) readSource(file string) (string, error) {
	if file == StdinFile {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}

	return string(data), nil
}

// checkOutputNames fails when two inputs would be written to the same output file.
func checkOutputNames(files []string) error {
	seen := make(map[string]string, len(files))

	for _, file := range files {
		name := outputName(file)

		if other, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, other, file, name)
		}

		seen[name] = file
	}

	return nil
}

func outputName(file string) string {
	if file == StdinFile {
		return stdinOutputName + outputExtension
	}

	base := filepath.Base(file)

	return strings.TrimSuffix(base, filepath.Ext(base)) + outputExtension
}
