package root

import (
	"github.com/artuross/tiny-compiler/internal/commands/compile"
	"github.com/artuross/tiny-compiler/internal/commands/inspect"
	"github.com/artuross/tiny-compiler/internal/commands/repl"
	"github.com/artuross/tiny-compiler/internal/commands/serve"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "tinycompiler",
		Usage: "Compiles Lisp-style calls into C-style calls.",
		Commands: []*cli.Command{
			compile.NewCommand(),
			inspect.NewCommand(),
			repl.NewCommand(),
			serve.NewCommand(),
		},
	}
}
