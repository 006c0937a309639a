// Command tictactoe plays a series in the terminal or serves the match tools
// over MCP stdio.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository"
	"github.com/rocketscienceinc/tictactoe-series/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-series/transport/mcp"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(logger).Run(ctx, os.Args); err != nil {
		logger.Fatal().Err(err).Msg("tictactoe failed")
	}
}

func newCommand(logger zerolog.Logger) *cli.Command {
	rules := entity.DefaultRules()

	return &cli.Command{
		Name:  "tictactoe",
		Usage: "tic-tac-toe series engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.IntFlag{Name: "size", Value: rules.BoardSize, Usage: "board side length"},
			&cli.IntFlag{Name: "win-points", Value: rules.WinPoints, Usage: "points for winning a round"},
			&cli.IntFlag{Name: "draw-points", Value: rules.DrawPoints, Usage: "points each player gets for a draw"},
			&cli.IntFlag{Name: "series-target", Value: rules.SeriesTarget, Usage: "points needed to win the series"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return ctx, err
			}

			zerolog.SetGlobalLevel(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play a series at this terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "player-one", Value: "Player 1", Usage: "name of X"},
					&cli.StringFlag{Name: "player-two", Value: "Player 2", Usage: "name of O"},
					&cli.BoolFlag{Name: "bot", Usage: "second seat is the BOT placeholder"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return play(ctx, cmd, logger)
				},
			},
			{
				Name:  "mcp",
				Usage: "serve the match tools over MCP stdio",
				Action: func(_ context.Context, cmd *cli.Command) error {
					manager := usecase.NewMatchManager(slogDiscard(), repository.NewMemoryMatchRepository(), rulesFrom(cmd))

					logger.Info().Msg("serving MCP over stdio")

					return mcp.New(slogDiscard(), manager).ServeStdio()
				},
			},
		},
	}
}

func play(ctx context.Context, cmd *cli.Command, logger zerolog.Logger) error {
	manager := usecase.NewMatchManager(slogDiscard(), repository.NewMemoryMatchRepository(), rulesFrom(cmd))

	setup := usecase.Setup{
		PlayerOne: cmd.String("player-one"),
		PlayerTwo: cmd.String("player-two"),
		Mode:      entity.ModeHuman,
	}

	if cmd.Bool("bot") {
		setup.Mode = entity.ModeBot
	}

	session := terminal.NewSession(logger, manager, terminal.NewRenderer(os.Stdout), os.Stdin, os.Stdout)

	_, err := session.Run(ctx, setup)
	if errors.Is(err, terminal.ErrInputClosed) || errors.Is(err, context.Canceled) {
		logger.Warn().Err(err).Msg("series abandoned")
		return nil
	}

	return err
}

func rulesFrom(cmd *cli.Command) entity.Rules {
	return entity.Rules{
		BoardSize:    int(cmd.Int("size")),
		WinPoints:    int(cmd.Int("win-points")),
		DrawPoints:   int(cmd.Int("draw-points")),
		SeriesTarget: int(cmd.Int("series-target")),
	}
}

// slogDiscard silences the service logger; the CLI reports through zerolog and
// stdout is reserved for the game or the MCP stream.
func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
