// Package compiler chains the lexer, parser, transformer and code generator into a single
// call that turns s-expression source into C-like statements.
package compiler

import (
	"context"

	"github.com/artuross/tiny-compiler/internal/compiler/ast"
	"github.com/artuross/tiny-compiler/internal/compiler/codegen"
	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
	"github.com/artuross/tiny-compiler/internal/compiler/target"
	"github.com/artuross/tiny-compiler/internal/compiler/transform"
	"github.com/artuross/tiny-compiler/internal/defaults"
	"github.com/artuross/tiny-compiler/internal/log/semconv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/artuross/tiny-compiler/internal/compiler"
)

const (
	StageLex       = "lex"
	StageParse     = "parse"
	StageTransform = "transform"
	StageGenerate  = "generate"
)

type Compiler struct {
	tracer trace.Tracer
}

func New(options ...func(*Compiler)) *Compiler {
	compiler := Compiler{
		tracer: defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&compiler)
	}

	return &compiler
}

func WithTracerProvider(tracerProvider trace.TracerProvider) func(*Compiler) {
	return func(c *Compiler) {
		c.tracer = tracerProvider.Tracer(tracerName)
	}
}

// Compile runs the whole pipeline without tracing or logging.
func Compile(source string) (string, error) {
	return New().Compile(context.Background(), source)
}

// Compile is safe for concurrent use. The context only carries the logger and the
// parent span; compilation itself never blocks.
func (c *Compiler) Compile(ctx context.Context, source string) (string, error) {
	compilationID := uuid.NewString()

	ctx, span := c.tracer.Start(
		ctx,
		"Compile",
		trace.WithAttributes(
			attribute.String(semconv.CompilationID, compilationID),
			attribute.Int(semconv.SourceLength, len(source)),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(ctx).With().Str(semconv.CompilationID, compilationID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Int(semconv.SourceLength, len(source)).Msg("compiling")

	var tokens []*lexer.Token
	err := c.runStage(ctx, StageLex, func() (err error) {
		tokens, err = lexer.Tokenize(source)
		return err
	})
	if err != nil {
		return "", err
	}

	logger.Debug().Int(semconv.TokenCount, len(tokens)).Msg("tokenized")

	var program *ast.Program
	err = c.runStage(ctx, StageParse, func() (err error) {
		program, err = parser.Parse(tokens)
		return err
	})
	if err != nil {
		return "", err
	}

	logger.Debug().Int(semconv.StatementCount, len(program.Body)).Msg("parsed")

	var targetProgram *target.Program
	err = c.runStage(ctx, StageTransform, func() (err error) {
		targetProgram, err = transform.Transform(program)
		return err
	})
	if err != nil {
		return "", err
	}

	var output string
	err = c.runStage(ctx, StageGenerate, func() (err error) {
		output, err = codegen.Generate(targetProgram)
		return err
	})
	if err != nil {
		return "", err
	}

	logger.Debug().Msg("compiled")

	return output, nil
}

// runStage wraps one pipeline stage in a span. Errors are returned unchanged; every
// stage's error type already says where it came from.
func (c *Compiler) runStage(ctx context.Context, stage string, fn func() error) error {
	_, span := c.tracer.Start(ctx, stage)
	defer span.End()

	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		zerolog.Ctx(ctx).Debug().Err(err).Str(semconv.Stage, stage).Msg("stage failed")

		return err
	}

	return nil
}
