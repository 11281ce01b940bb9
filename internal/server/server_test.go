package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/artuross/tiny-compiler/internal/compiler"
	"github.com/artuross/tiny-compiler/internal/server"
	"github.com/artuross/tiny-compiler/internal/util/timeutil"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func dial(t *testing.T, s *server.Server) net.Conn {
	t.Helper()

	httpServer := httptest.NewServer(s)
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http")

	conn, _, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func roundTrip(t *testing.T, conn net.Conn, source string) server.Response {
	t.Helper()

	require.NoError(t, wsutil.WriteClientText(conn, []byte(source)))

	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)

	var response server.Response
	require.NoError(t, json.Unmarshal(data, &response))

	return response
}

func TestServer_Compile(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		response server.Response
	}

	testCases := []testCase{
		{
			name:     "call",
			input:    "(add 2 (subtract 4 2))",
			response: server.Response{Output: "add(2, subtract(4, 2));"},
		},
		{
			name:     "empty program",
			input:    "  ",
			response: server.Response{Output: ""},
		},
		{
			name:     "lex error",
			input:    "(add 2 #)",
			response: server.Response{Error: "lex error at 1:8: invalid character '#'", Kind: server.ErrorKindLex},
		},
	}

	conn := dial(t, server.New(compiler.New(), server.WithPingInterval(0)))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			response := roundTrip(t, conn, tc.input)

			assert.Equal(t, tc.response, response)
		})
	}
}

func TestServer_ParseErrorKind(t *testing.T) {
	conn := dial(t, server.New(compiler.New(), server.WithPingInterval(0)))

	response := roundTrip(t, conn, "(add 2")

	assert.Empty(t, response.Output)
	assert.Equal(t, server.ErrorKindParse, response.Kind)
	assert.Contains(t, response.Error, "unclosed call")
}

func TestServer_Ping(t *testing.T) {
	ticker := timeutil.NewFakeTicker()

	conn := dial(t, server.New(
		compiler.New(),
		server.WithPingInterval(time.Minute),
		server.WithTickerFunc(ticker.Func()),
	))

	ticker.Tick()

	header, err := ws.ReadHeader(conn)
	require.NoError(t, err)

	assert.Equal(t, ws.OpPing, header.OpCode)
	assert.True(t, header.Fin)

	// the connection keeps serving after a ping
	require.NoError(t, wsutil.WriteClientText(conn, []byte("(now)")))

	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"now();"}`, string(data))

	require.NoError(t, conn.Close())

	assert.Eventually(t, ticker.Stopped, time.Second, 10*time.Millisecond)
}

func TestServer_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	s := server.New(
		compiler.New(compiler.WithTracerProvider(tracerProvider)),
		server.WithPingInterval(0),
		server.WithTracerProvider(tracerProvider),
	)

	conn := dial(t, s)
	_ = roundTrip(t, conn, "(add 2 3)")

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	last := spans[len(spans)-1]
	assert.Equal(t, "CompileMessage", last.Name())

	for _, span := range spans[:len(spans)-1] {
		assert.Equal(t, last.SpanContext().TraceID(), span.SpanContext().TraceID())
	}
}
