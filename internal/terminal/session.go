package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

var (
	ErrInputClosed = errors.New("input closed before the series finished")
	errBadInput    = errors.New(`enter "row col" or a cell number`)
)

type matchUseCase interface {
	CreateMatch(ctx context.Context, setup usecase.Setup) (*entity.Match, error)
	PlayRound(ctx context.Context, id string, row, col int) (*entity.Match, entity.RoundResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	EndMatch(ctx context.Context, id string) error
}

// Session plays a whole series at one keyboard.
type Session struct {
	logger   zerolog.Logger
	matches  matchUseCase
	renderer *Renderer

	in  *bufio.Scanner
	out io.Writer
}

func NewSession(logger zerolog.Logger, matches matchUseCase, renderer *Renderer, in io.Reader, out io.Writer) *Session {
	return &Session{
		logger:   logger,
		matches:  matches,
		renderer: renderer,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run plays rounds until one player wins the series and returns the final
// match. The match is removed from the store afterwards.
func (that *Session) Run(ctx context.Context, setup usecase.Setup) (*entity.Match, error) {
	match, err := that.matches.CreateMatch(ctx, setup)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	defer func() {
		if err := that.matches.EndMatch(context.WithoutCancel(ctx), match.ID); err != nil {
			that.logger.Warn().Err(err).Str("match", match.ID).Msg("failed to end match")
		}
	}()

	that.logger.Debug().Str("match", match.ID).Msg("series started")

	for {
		if err = ctx.Err(); err != nil {
			return match, err
		}

		that.printf("\n%s\n%s", that.renderer.Scoreboard(match), that.renderer.Board(match))

		current := match.Players[match.Turn]
		that.printf("%s (%s) move: ", current.Name, current.Marker)

		if !that.in.Scan() {
			return match, ErrInputClosed
		}

		row, col, err := parseMove(that.in.Text(), match.Rules.BoardSize)
		if err != nil {
			that.printf("%s\n", err)
			continue
		}

		updated, result, err := that.matches.PlayRound(ctx, match.ID, row, col)
		if err != nil {
			that.logger.Debug().Err(err).Int("row", row).Int("col", col).Msg("move rejected")
			that.printf("%s\n", err)
			continue
		}

		match = updated

		if !result.IsTerminal() {
			continue
		}

		that.printf("\n%s%s\n", that.renderer.Board(match), that.renderer.Outcome(result))

		if match.IsSeriesOver() {
			that.printf("%s\n", that.renderer.Champion(match))
			that.logger.Info().Str("winner", string(match.SeriesWinner)).Int("rounds", match.Round).Msg("series finished")

			return match, nil
		}

		if match, err = that.matches.ResetRound(ctx, match.ID); err != nil {
			return nil, fmt.Errorf("failed to reset round: %w", err)
		}
	}
}

func (that *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

// parseMove accepts "row col" (0-based) or a single 1-based cell number.
// Range checks are left to the engine.
func parseMove(line string, size int) (int, int, error) {
	fields := strings.Fields(line)

	switch len(fields) {
	case 1:
		number, err := strconv.Atoi(fields[0])
		if err != nil || number < 1 {
			return 0, 0, errBadInput
		}

		number--

		return number / size, number % size, nil
	case 2:
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, errBadInput
		}

		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, errBadInput
		}

		return row, col, nil
	default:
		return 0, 0, errBadInput
	}
}
