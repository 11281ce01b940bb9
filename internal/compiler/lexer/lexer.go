package lexer

import (
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type TokenType string

const (
	TokenTypeName   TokenType = "NAME"
	TokenTypeNumber TokenType = "NUMBER"
	TokenTypeParen  TokenType = "PAREN"
	TokenTypeString TokenType = "STRING"
)

var (
	ErrInvalidCharacter    = errors.New("invalid character")
	ErrUnterminatedString  = errors.New("unterminated string")
	errRuneInvalidEncoding = errors.New("decode rune: invalid rune")
)

type Point struct {
	Line   int
	Column int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Position struct {
	Start Point
	End   Point
}

type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

// Error is returned when the input contains a character that does not start any token,
// or when a string literal is not closed before the end of the input.
type Error struct {
	Err   error
	Char  rune
	Point Point
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrUnterminatedString) {
		return fmt.Sprintf("lex error at %s: %s", e.Point, e.Err)
	}

	return fmt.Sprintf("lex error at %s: %s %q", e.Point, e.Err, e.Char)
}

func (e *Error) Unwrap() error { return e.Err }

type Lexer struct {
	input    []byte
	point    Point
	position int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		point:    Point{Line: 1, Column: 1},
		position: 0,
	}
}

// Tokenize reads the whole input. An empty input yields an empty, non-nil slice.
func Tokenize(input string) ([]*Token, error) {
	lex := NewLexer(input)

	tokens := make([]*Token, 0)
	for {
		token, err := lex.ReadToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}
}

// ReadToken returns the next token or io.EOF once the input is exhausted.
func (l *Lexer) ReadToken() (*Token, error) {
	l.advanceWhitespace()

	r, _, err := l.peek()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &Error{Err: ErrInvalidCharacter, Char: utf8.RuneError, Point: l.point}
	}

	switch {
	case isParen(r):
		return l.readParen()

	case isDigit(r):
		return l.readNumber()

	case isStringDelimiter(r):
		return l.readString()

	case isNameCharacter(r):
		return l.readName()
	}

	return nil, &Error{Err: ErrInvalidCharacter, Char: r, Point: l.point}
}

func (l *Lexer) advanceWhitespace() {
	for {
		r, _, err := l.peek()
		if err != nil {
			return
		}

		if !unicode.IsSpace(r) {
			return
		}

		_, err = l.read()
		invariant(err != nil, "advanceWhitespace: unexpected read() error after peek()")
	}
}

func (l *Lexer) readParen() (*Token, error) {
	startPoint := l.point

	r, err := l.read()
	invariant(err != nil, "readParen: unexpected read() error when consuming first character")

	token := Token{
		Type:  TokenTypeParen,
		Value: string(r),
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
	}

	return &token, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	return l.readRun(TokenTypeNumber, isDigit)
}

func (l *Lexer) readName() (*Token, error) {
	return l.readRun(TokenTypeName, isNameCharacter)
}

// readRun consumes the longest run of runes accepted by accept.
func (l *Lexer) readRun(tokenType TokenType, accept func(rune) bool) (*Token, error) {
	startPoint := l.point
	startPos := l.position

	for {
		r, _, err := l.peek()
		if err != nil || !accept(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readRun: unexpected read() error after peek()")
	}

	invariant(startPos == l.position, "readRun: first character is not valid")

	token := Token{
		Type:  tokenType,
		Value: string(l.input[startPos:l.position]),
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
	}

	return &token, nil
}

func (l *Lexer) readString() (*Token, error) {
	startPoint := l.point

	// discard the opening quote
	r, err := l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming first character")
	invariant(!isStringDelimiter(r), "readString: first character is not valid")

	startPos := l.position

	// string contents are opaque: bytes that are not valid UTF-8 are kept as they are
	for {
		if l.position >= len(l.input) {
			return nil, &Error{Err: ErrUnterminatedString, Char: '"', Point: startPoint}
		}

		if isStringDelimiter(rune(l.input[l.position])) {
			break
		}

		if _, err := l.read(); err != nil {
			invariant(!errors.Is(err, errRuneInvalidEncoding), "readString: unexpected read() error")

			l.position++
			l.point.Column++
		}
	}

	value := string(l.input[startPos:l.position])

	// discard the closing quote
	_, err = l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming closing quote")

	token := Token{
		Type:  TokenTypeString,
		Value: value,
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
	}

	return &token, nil
}

func (l *Lexer) peek() (rune, int, error) {
	if l.position >= len(l.input) {
		return 0, 0, io.EOF
	}

	r, size := utf8.DecodeRune(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, errRuneInvalidEncoding
	}

	return r, size, nil
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.peek()
	if err != nil {
		return 0, err
	}

	l.position += size

	if r == '\n' {
		l.point.Line++
		l.point.Column = 1
	} else {
		l.point.Column++
	}

	return r, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameCharacter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isParen(r rune) bool {
	return r == '(' || r == ')'
}

func isStringDelimiter(r rune) bool {
	return r == '"'
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
