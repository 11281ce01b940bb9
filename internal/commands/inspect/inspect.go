package inspect

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/artuross/tiny-compiler/internal/compiler/codegen"
	"github.com/artuross/tiny-compiler/internal/compiler/lexer"
	"github.com/artuross/tiny-compiler/internal/compiler/parser"
	"github.com/artuross/tiny-compiler/internal/compiler/transform"
	"github.com/kr/pretty"
)

type Stage string

const (
	StageTokens Stage = "tokens"
	StageAST    Stage = "ast"
	StageTarget Stage = "target"
	StageOutput Stage = "output"
)

var Stages = []Stage{StageTokens, StageAST, StageTarget, StageOutput}

func ParseStage(value string) (Stage, error) {
	for _, stage := range Stages {
		if string(stage) == value {
			return stage, nil
		}
	}

	return "", fmt.Errorf("unknown stage: %q", value)
}

// Inspect runs the pipeline up to stage and writes that stage's result to w.
func Inspect(w io.Writer, source string, stage Stage) error {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return err
	}

	if stage == StageTokens {
		return printTokens(w, tokens)
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	if stage == StageAST {
		_, err := pretty.Fprintf(w, "%# v\n", program)
		return err
	}

	targetProgram, err := transform.Transform(program)
	if err != nil {
		return err
	}

	if stage == StageTarget {
		_, err := pretty.Fprintf(w, "%# v\n", targetProgram)
		return err
	}

	output, err := codegen.Generate(targetProgram)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, output)

	return err
}

func printTokens(w io.Writer, tokens []*lexer.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "POSITION\tTYPE\tVALUE")
	for _, token := range tokens {
		fmt.Fprintf(tw, "%s-%s\t%s\t%q\n", token.Position.Start, token.Position.End, token.Type, token.Value)
	}

	return tw.Flush()
}
