package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

// axes are the four line directions checked from the last placed cell.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// Engine runs the rounds of one series between two players. It is not safe
// for concurrent use; the owner serialises calls.
type Engine struct {
	rules   entity.Rules
	board   *Board
	players [2]entity.Player
	current int
	status  string
	winner  int
	round   int
}

// NewEngine starts a new series. The first player holds X and moves first.
func NewEngine(rules entity.Rules, playerOne, playerTwo string) (*Engine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	engine := &Engine{
		rules: rules,
		board: NewBoard(rules.BoardSize),
		players: [2]entity.Player{
			{Name: playerOne, Marker: entity.MarkerX},
			{Name: playerTwo, Marker: entity.MarkerO},
		},
	}
	engine.Reset()

	return engine, nil
}

func ValidateRules(rules entity.Rules) error {
	switch {
	case rules.BoardSize < 1:
		return fmt.Errorf("%w: board size %d", apperror.ErrInvalidRules, rules.BoardSize)
	case rules.WinPoints < 0 || rules.DrawPoints < 0:
		return fmt.Errorf("%w: negative points", apperror.ErrInvalidRules)
	case rules.SeriesTarget < 1:
		return fmt.Errorf("%w: series target %d", apperror.ErrInvalidRules, rules.SeriesTarget)
	}

	return nil
}

// PlayRound places the current player's marker at (row, col).
//
// A rejected move (out of bounds, occupied, round already over) and a move
// that does not end the round both return the zero RoundResult. The turn
// passes to the other player only after an accepted, non-terminal move.
func (that *Engine) PlayRound(row, col int) entity.RoundResult {
	if that.status != entity.StatusPlaying || !that.board.InBounds(row, col) {
		return entity.RoundResult{}
	}

	player := &that.players[that.current]
	if !that.board.Place(row, col, player.Marker) {
		return entity.RoundResult{}
	}

	if that.completesLine(row, col, player.Marker) {
		player.Score += that.rules.WinPoints
		that.status = entity.StatusWon
		that.winner = that.current

		winner := *player

		return entity.RoundResult{Outcome: entity.OutcomeWin, Winner: &winner}
	}

	if that.board.IsFull() {
		for i := range that.players {
			that.players[i].Score += that.rules.DrawPoints
		}
		that.status = entity.StatusDrawn

		return entity.RoundResult{Outcome: entity.OutcomeDraw}
	}

	that.current = 1 - that.current

	return entity.RoundResult{}
}

// Validate reports why PlayRound would reject the move, without mutating state.
func (that *Engine) Validate(row, col int) error {
	if that.status != entity.StatusPlaying {
		return apperror.ErrRoundFinished
	}

	if !that.board.InBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if that.board.At(row, col) != entity.MarkerNone {
		return apperror.ErrCellOccupied
	}

	return nil
}

// completesLine scans outwards from the placed cell along each axis. A win
// must pass through the last move, so only these lines need checking.
func (that *Engine) completesLine(row, col int, marker entity.Marker) bool {
	size := that.board.Size()

	for _, axis := range axes {
		count := 1 + that.run(row, col, axis[0], axis[1], marker) + that.run(row, col, -axis[0], -axis[1], marker)
		if count >= size {
			return true
		}
	}

	return false
}

func (that *Engine) run(row, col, dr, dc int, marker entity.Marker) int {
	count := 0
	for i := 1; i < that.board.Size(); i++ {
		r, c := row+i*dr, col+i*dc
		if !that.board.InBounds(r, c) || that.board.At(r, c) != marker {
			break
		}
		count++
	}

	return count
}

// MovesAvailable lists empty cells in row-major order.
func (that *Engine) MovesAvailable() []entity.Position {
	return that.board.EmptyPositions()
}

// Reset clears the board for a new round and gives the first move back to
// the first player. Scores are kept.
func (that *Engine) Reset() {
	that.board.Initialize()
	that.current = 0
	that.status = entity.StatusPlaying
	that.winner = -1
	that.round++
}

func (that *Engine) Scores() [2]int {
	return [2]int{that.players[0].Score, that.players[1].Score}
}

func (that *Engine) CurrentPlayer() entity.Player {
	return that.players[that.current]
}

func (that *Engine) Players() [2]entity.Player {
	return that.players
}

func (that *Engine) BoardValues() []entity.Marker {
	return that.board.Values()
}

func (that *Engine) BoardSize() int {
	return that.board.Size()
}

func (that *Engine) Status() string {
	return that.status
}

func (that *Engine) Round() int {
	return that.round
}

func (that *Engine) Rules() entity.Rules {
	return that.rules
}

// Winner returns the winner of the current round, if it has one.
func (that *Engine) Winner() (entity.Player, bool) {
	if that.status != entity.StatusWon {
		return entity.Player{}, false
	}

	return that.players[that.winner], true
}

// SeriesWinner returns the leader once a score has reached the series target
// and the scores differ. Play is never halted by it.
func (that *Engine) SeriesWinner() (entity.Player, bool) {
	idx, ok := SeriesLeader(that.rules, that.Scores())
	if !ok {
		return entity.Player{}, false
	}

	return that.players[idx], true
}

// SeriesLeader applies the series rule to a pair of scores.
func SeriesLeader(rules entity.Rules, scores [2]int) (int, bool) {
	if scores[0] == scores[1] {
		return 0, false
	}

	if scores[0] < rules.SeriesTarget && scores[1] < rules.SeriesTarget {
		return 0, false
	}

	if scores[0] > scores[1] {
		return 0, true
	}

	return 1, true
}
