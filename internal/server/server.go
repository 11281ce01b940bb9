// Package server exposes the compiler over WebSocket. Every text or binary message a
// client sends is compiled as a separate program and answered with one JSON Response.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/artuross/tiny-compiler/internal/compiler/codegen"
	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
	"github.com/artuross/tiny-compiler/internal/compiler/traverse"
	"github.com/artuross/tiny-compiler/internal/defaults"
	"github.com/artuross/tiny-compiler/internal/log/semconv"
	"github.com/artuross/tiny-compiler/internal/util/timeutil"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	tracerName = "github.com/artuross/tiny-compiler/internal/server"

	DefaultPingInterval = 30 * time.Second
)

const (
	ErrorKindLex      = "lex"
	ErrorKindParse    = "parse"
	ErrorKindTraverse = "traverse"
	ErrorKindCodegen  = "codegen"
	ErrorKindInternal = "internal"
)

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

type Response struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

type Server struct {
	compiler     Compiler
	pingInterval time.Duration
	newTicker    timeutil.NewTickerFunc
	tracer       trace.Tracer
}

func New(compiler Compiler, options ...func(*Server)) *Server {
	server := Server{
		compiler:     compiler,
		pingInterval: DefaultPingInterval,
		newTicker:    timeutil.NewTicker,
		tracer:       defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&server)
	}

	return &server
}

// WithPingInterval sets how often idle connections are pinged. Zero disables pings.
func WithPingInterval(interval time.Duration) func(*Server) {
	return func(s *Server) {
		s.pingInterval = interval
	}
}

func WithTickerFunc(newTicker timeutil.NewTickerFunc) func(*Server) {
	return func(s *Server) {
		s.newTicker = newTicker
	}
}

func WithTracerProvider(tracerProvider trace.TracerProvider) func(*Server) {
	return func(s *Server) {
		s.tracer = tracerProvider.Tracer(tracerName)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str(semconv.RemoteAddr, r.RemoteAddr).Logger()

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		logger.Warn().Err(err).Msg("upgrade connection")
		return
	}
	defer conn.Close()

	logger.Info().Msg("client connected")
	defer logger.Info().Msg("client disconnected")

	ctx, cancel := context.WithCancel(logger.WithContext(r.Context()))
	defer cancel()

	writer := &connWriter{w: conn}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()

		return s.readLoop(ctx, conn, writer)
	})

	g.Go(func() error {
		return s.pingLoop(ctx, writer)
	})

	// unblocks the reader once the pinger fails or the server shuts down
	g.Go(func() error {
		<-ctx.Done()
		_ = conn.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("connection closed with error")
	}
}

func (s *Server) readLoop(ctx context.Context, conn net.Conn, writer *connWriter) error {
	// control frame replies written by ReadClientData share the lock with pings
	rw := struct {
		io.Reader
		io.Writer
	}{conn, writer}

	for {
		data, _, err := wsutil.ReadClientData(rw)
		if err != nil {
			if isClosed(ctx, err) {
				return nil
			}

			return fmt.Errorf("read message: %w", err)
		}

		response := s.compile(ctx, string(data))

		payload, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}

		if err := writer.writeText(payload); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) compile(ctx context.Context, source string) Response {
	ctx, span := s.tracer.Start(
		ctx,
		"CompileMessage",
		trace.WithAttributes(attribute.Int(semconv.SourceLength, len(source))),
	)
	defer span.End()

	output, err := s.compiler.Compile(ctx, source)
	if err != nil {
		kind := errorKind(err)

		zerolog.Ctx(ctx).Debug().Err(err).Str("kind", kind).Msg("compile failed")

		return Response{Error: err.Error(), Kind: kind}
	}

	return Response{Output: output}
}

func (s *Server) pingLoop(ctx context.Context, writer *connWriter) error {
	if s.pingInterval <= 0 {
		return nil
	}

	ticker := s.newTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C():
			if _, err := writer.Write(ws.CompiledPing); err != nil {
				return fmt.Errorf("send ping: %w", err)
			}
		}
	}
}

func errorKind(err error) string {
	var (
		lexErr      *lexer.Error
		parseErr    *parser.Error
		traverseErr *traverse.Error
		codegenErr  *codegen.Error
	)

	switch {
	case errors.As(err, &lexErr):
		return ErrorKindLex
	case errors.As(err, &parseErr):
		return ErrorKindParse
	case errors.As(err, &traverseErr):
		return ErrorKindTraverse
	case errors.As(err, &codegenErr):
		return ErrorKindCodegen
	default:
		return ErrorKindInternal
	}
}

func isClosed(ctx context.Context, err error) bool {
	var closedErr wsutil.ClosedError

	return errors.As(err, &closedErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		ctx.Err() != nil
}

// connWriter serializes writes to the connection. Every call writes one whole frame.
type connWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *connWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.w.Write(p)
}

func (c *connWriter) writeText(payload []byte) error {
	var buf bytes.Buffer
	if err := wsutil.WriteServerMessage(&buf, ws.OpText, payload); err != nil {
		return err
	}

	_, err := c.Write(buf.Bytes())

	return err
}
