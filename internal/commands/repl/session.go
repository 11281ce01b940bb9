package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
)

const (
	promptMain = "tiny> "
	promptCont = "  ... "

	commandQuit = ":quit"
	commandHelp = ":help"
)

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

type Session struct {
	compiler Compiler
	out      io.Writer
	errOut   io.Writer
}

func NewSession(compiler Compiler, out, errOut io.Writer) *Session {
	return &Session{
		compiler: compiler,
		out:      out,
		errOut:   errOut,
	}
}

// Eval handles one complete input. It reports whether the session should end.
func (s *Session) Eval(ctx context.Context, input string) (exit bool) {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return false

	case input == commandQuit:
		return true

	case input == commandHelp:
		fmt.Fprintln(s.out, "Type an s-expression such as (add 2 (mul 3 4)) to see it compiled.")
		fmt.Fprintln(s.out, "Input continues on the next line while a call or string is left open.")
		fmt.Fprintf(s.out, "%s exits.\n", commandQuit)
		return false

	case strings.HasPrefix(input, ":"):
		fmt.Fprintf(s.errOut, "unknown command %s, type %s for help\n", input, commandHelp)
		return false
	}

	output, err := s.compiler.Compile(ctx, input)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return false
	}

	if output != "" {
		fmt.Fprintln(s.out, output)
	}

	return false
}

// IsIncomplete reports whether more lines could turn input into a valid program: a call
// or string literal is still open.
func IsIncomplete(input string) bool {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return errors.Is(err, lexer.ErrUnterminatedString)
	}

	_, err = parser.Parse(tokens)

	return errors.Is(err, parser.ErrUnclosedCall)
}
