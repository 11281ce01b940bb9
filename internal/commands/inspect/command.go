package inspect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/artuross/tiny-compiler/internal/commandinit"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	stages := make([]string, 0, len(Stages))
	for _, stage := range Stages {
		stages = append(stages, string(stage))
	}

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Prints the result of a single pipeline stage.",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "stage",
				Usage: "Stage to print: " + strings.Join(stages, ", ") + ".",
				Value: string(StageAST),
			},
			commandinit.NewLogLevelFlag(),
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	stage, err := ParseStage(cliCtx.String("stage"))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel, err := zerolog.ParseLevel(strings.ToLower(cliCtx.String(commandinit.LogLevelFlagName)))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := commandinit.NewLogger(os.Stderr, logLevel, "inspect")

	file := cliCtx.Args().First()

	var source []byte
	if file == "" || file == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(file)
	}
	if err != nil {
		logger.Error().Err(err).Msg("read source")
		return ErrCommandFailed
	}

	logger.Debug().Str("stage", string(stage)).Msg("inspecting")

	if err := Inspect(os.Stdout, string(source), stage); err != nil {
		logger.Error().Err(err).Msg("inspect")
		return ErrCommandFailed
	}

	return nil
}
