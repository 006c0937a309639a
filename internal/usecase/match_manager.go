package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/tictactoe"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

// Setup is what the setup dialog submits to start a series.
type Setup struct {
	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
	Mode      string `json:"mode"`
}

type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	rules     entity.Rules

	// one load-play-save cycle at a time
	mu sync.Mutex
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, rules entity.Rules) *MatchManager {
	return &MatchManager{
		logger:    logger.With("component", "match_manager"),
		matchRepo: matchRepo,
		rules:     rules,
	}
}

func (that *MatchManager) Rules() entity.Rules {
	return that.rules
}

// CreateMatch starts a new series with fresh scores. In bot mode the second
// seat is held by the BOT placeholder.
func (that *MatchManager) CreateMatch(ctx context.Context, setup Setup) (*entity.Match, error) {
	log := that.logger.With("method", "CreateMatch")

	mode := setup.Mode
	if mode == "" {
		mode = entity.ModeHuman
	}

	playerOne := strings.TrimSpace(setup.PlayerOne)
	playerTwo := strings.TrimSpace(setup.PlayerTwo)

	switch mode {
	case entity.ModeHuman:
	case entity.ModeBot:
		playerTwo = entity.BotName
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownMode, setup.Mode)
	}

	if playerOne == "" || playerTwo == "" {
		return nil, apperror.ErrPlayerNameRequired
	}

	engine, err := tictactoe.NewEngine(that.rules, playerOne, playerTwo)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	match := engine.Snapshot()
	match.ID = uuid.NewString()
	match.Mode = mode

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Info("match created", "matchID", match.ID, "mode", mode)

	return match, nil
}

// PlayRound plays one move for whoever's turn it is. A rejected move returns
// the reason and leaves the stored match untouched.
func (that *MatchManager) PlayRound(ctx context.Context, id string, row, col int) (*entity.Match, entity.RoundResult, error) {
	log := that.logger.With("method", "PlayRound", "matchID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	match, engine, err := that.load(ctx, id)
	if err != nil {
		return nil, entity.RoundResult{}, err
	}

	if err = engine.Validate(row, col); err != nil {
		return match, entity.RoundResult{}, fmt.Errorf("invalid move: %w", err)
	}

	result := engine.PlayRound(row, col)

	updated, err := that.save(ctx, match, engine)
	if err != nil {
		return nil, entity.RoundResult{}, err
	}

	if result.IsTerminal() {
		log.Info("round finished", "outcome", result.Outcome, "round", updated.Round, "scores", updated.Scores())
	}

	if updated.IsSeriesOver() && result.IsTerminal() {
		log.Info("series finished", "winner", updated.SeriesWinner)
	}

	return updated, result, nil
}

// ResetRound clears the board for the next round; scores are kept.
func (that *MatchManager) ResetRound(ctx context.Context, id string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, engine, err := that.load(ctx, id)
	if err != nil {
		return nil, err
	}

	engine.Reset()

	return that.save(ctx, match, engine)
}

// AdvanceRound resets the board only if the given round has ended and no one
// has started the next one yet. It reports whether a reset happened.
func (that *MatchManager) AdvanceRound(ctx context.Context, id string, round int) (*entity.Match, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, engine, err := that.load(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if engine.Round() != round || engine.Status() == entity.StatusPlaying {
		return match, false, nil
	}

	engine.Reset()

	updated, err := that.save(ctx, match, engine)
	if err != nil {
		return nil, false, err
	}

	return updated, true, nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (that *MatchManager) AvailableMoves(ctx context.Context, id string) ([]entity.Position, error) {
	_, engine, err := that.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return engine.MovesAvailable(), nil
}

func (that *MatchManager) EndMatch(ctx context.Context, id string) error {
	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match ended", "method", "EndMatch", "matchID", id)

	return nil
}

func (that *MatchManager) load(ctx context.Context, id string) (*entity.Match, *tictactoe.Engine, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get match: %w", err)
	}

	engine, err := tictactoe.Restore(match)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore match %s: %w", id, err)
	}

	return match, engine, nil
}

func (that *MatchManager) save(ctx context.Context, match *entity.Match, engine *tictactoe.Engine) (*entity.Match, error) {
	updated := engine.Snapshot()
	updated.ID = match.ID
	updated.Mode = match.Mode

	if err := that.matchRepo.CreateOrUpdate(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return updated, nil
}
