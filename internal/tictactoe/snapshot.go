package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

// Snapshot captures the engine state. ID and Mode are left for the caller.
func (that *Engine) Snapshot() *entity.Match {
	match := &entity.Match{
		Rules:   that.rules,
		Board:   that.board.Values(),
		Players: that.players,
		Turn:    that.current,
		Status:  that.status,
		Round:   that.round,
	}

	if winner, ok := that.Winner(); ok {
		match.Winner = winner.Marker
	}

	if leader, ok := that.SeriesWinner(); ok {
		match.SeriesWinner = leader.Marker
	}

	return match
}

// Restore rebuilds an engine from a snapshot produced by Snapshot.
func Restore(match *entity.Match) (*Engine, error) {
	if err := ValidateRules(match.Rules); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptMatch, err)
	}

	size := match.Rules.BoardSize
	if len(match.Board) != size*size {
		return nil, fmt.Errorf("%w: board has %d cells, want %d", apperror.ErrCorruptMatch, len(match.Board), size*size)
	}

	if match.Turn != 0 && match.Turn != 1 {
		return nil, fmt.Errorf("%w: turn %d", apperror.ErrCorruptMatch, match.Turn)
	}

	engine := &Engine{
		rules:   match.Rules,
		board:   NewBoard(size),
		players: match.Players,
		current: match.Turn,
		status:  match.Status,
		winner:  -1,
		round:   match.Round,
	}

	for i, marker := range match.Board {
		switch marker {
		case entity.MarkerNone:
			continue
		case entity.MarkerX, entity.MarkerO:
			engine.board.Place(i/size, i%size, marker)
		default:
			return nil, fmt.Errorf("%w: unknown marker %q", apperror.ErrCorruptMatch, marker)
		}
	}

	switch match.Status {
	case entity.StatusPlaying, entity.StatusDrawn:
	case entity.StatusWon:
		engine.winner = engine.playerIndex(match.Winner)
		if engine.winner < 0 {
			return nil, fmt.Errorf("%w: unknown winner %q", apperror.ErrCorruptMatch, match.Winner)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrCorruptMatch, match.Status)
	}

	return engine, nil
}

func (that *Engine) playerIndex(marker entity.Marker) int {
	for i, player := range that.players {
		if player.Marker == marker {
			return i
		}
	}

	return -1
}
