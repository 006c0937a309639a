package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchStatusMethods(t *testing.T) {
	t.Run("IsPlaying returns true when the round is in progress", func(t *testing.T) {
		// Given: a match with StatusPlaying
		match := &Match{Status: StatusPlaying}

		// Then: it is playing and not finished
		assert.True(t, match.IsPlaying())
		assert.False(t, match.IsFinished())
	})

	t.Run("IsFinished returns true after a win or a draw", func(t *testing.T) {
		for _, status := range []string{StatusWon, StatusDrawn} {
			// Given: a terminal match
			match := &Match{Status: status}

			// Then: it is finished
			assert.True(t, match.IsFinished())
			assert.False(t, match.IsPlaying())
		}
	})

	t.Run("IsWithBot follows the mode", func(t *testing.T) {
		assert.True(t, (&Match{Mode: ModeBot}).IsWithBot())
		assert.False(t, (&Match{Mode: ModeHuman}).IsWithBot())
	})
}

func TestMatch_Clone(t *testing.T) {
	// Given: a match with a board
	match := &Match{ID: "1", Board: []Marker{MarkerX, MarkerNone}}

	// When: it is cloned and the clone is modified
	clone := match.Clone()
	clone.Board[1] = MarkerO

	// Then: the original board is untouched
	assert.Equal(t, MarkerNone, match.Board[1])
	assert.Equal(t, "1", clone.ID)
}

func TestMatch_Scores(t *testing.T) {
	match := &Match{Players: [2]Player{{Score: 2}, {Score: 5}}, SeriesWinner: MarkerO}

	assert.Equal(t, [2]int{2, 5}, match.Scores())
	assert.True(t, match.IsSeriesOver())
}

func TestRoundResult(t *testing.T) {
	assert.False(t, RoundResult{}.IsTerminal())
	assert.True(t, RoundResult{Outcome: OutcomeWin}.IsTerminal())
	assert.True(t, RoundResult{Outcome: OutcomeDraw}.IsDraw())
}
