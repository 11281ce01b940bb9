package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artuross/tiny-compiler/internal/commandinit"
	"github.com/artuross/tiny-compiler/internal/compiler"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

const historyFile = ".tinycompiler_history"

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Compiles expressions interactively.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file. Defaults to ~/" + historyFile + ".",
			},
			commandinit.NewLogLevelFlag(),
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	logLevel, err := zerolog.ParseLevel(strings.ToLower(cliCtx.String(commandinit.LogLevelFlagName)))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := commandinit.NewLogger(os.Stderr, logLevel, "repl")
	ctx = logger.WithContext(ctx)

	historyPath := cliCtx.String("history")
	if historyPath == "" {
		home, _ := os.UserHomeDir()
		historyPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		f, err := os.Create(historyPath)
		if err != nil {
			logger.Warn().Err(err).Msg("save history")
			return
		}

		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}()

	session := NewSession(compiler.New(), os.Stdout, os.Stderr)

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}

		if exit := session.Eval(ctx, input); exit {
			return nil
		}
	}
}

// readInput keeps prompting while the input is incomplete. It returns false on EOF,
// Ctrl-C (liner.ErrPromptAborted) or a terminal error.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !IsIncomplete(b.String()) {
			return b.String(), true
		}
	}
}
