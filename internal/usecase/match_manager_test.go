package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockMatchRepo struct {
	mock.Mock
}

func (that *mockMatchRepo) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	args := that.Called(ctx, match)
	return args.Error(0)
}

func (that *mockMatchRepo) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	args := that.Called(ctx, id)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (that *mockMatchRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager() *MatchManager {
	return NewMatchManager(discardLogger(), repository.NewMemoryMatchRepository(), entity.DefaultRules())
}

func TestMatchManager_CreateMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a human match", func(t *testing.T) {
		// Given: a manager with an in-memory store
		manager := newManager()

		// When: two named players start a series
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: " Alice ", PlayerTwo: "Bob"})

		// Then: the match is stored with fresh scores
		require.NoError(t, err)
		assert.NotEmpty(t, match.ID)
		assert.Equal(t, entity.ModeHuman, match.Mode)
		assert.Equal(t, "Alice", match.Players[0].Name)
		assert.Equal(t, entity.MarkerX, match.Players[0].Marker)
		assert.Equal(t, "Bob", match.Players[1].Name)
		assert.Equal(t, [2]int{0, 0}, match.Scores())

		stored, err := manager.GetMatch(ctx, match.ID)
		require.NoError(t, err)
		assert.Equal(t, match, stored)
	})

	t.Run("Bot mode uses the placeholder name", func(t *testing.T) {
		manager := newManager()

		// When: a bot match is requested without a second name
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", Mode: entity.ModeBot})

		// Then: the second seat is BOT
		require.NoError(t, err)
		assert.Equal(t, entity.BotName, match.Players[1].Name)
		assert.True(t, match.IsWithBot())
	})

	t.Run("Rejects missing names", func(t *testing.T) {
		manager := newManager()

		_, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "  "})

		require.ErrorIs(t, err, apperror.ErrPlayerNameRequired)
	})

	t.Run("Rejects unknown modes", func(t *testing.T) {
		manager := newManager()

		_, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob", Mode: "online"})

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		// Given: a repository that fails on write
		repo := &mockMatchRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Match")).Return(errRedisDown).Once()
		manager := NewMatchManager(discardLogger(), repo, entity.DefaultRules())

		// When: a match is created
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})

		// Then: the error is wrapped and returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, match)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects invalid rules", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), repository.NewMemoryMatchRepository(), entity.Rules{})

		_, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})

		require.ErrorIs(t, err, apperror.ErrInvalidRules)
	})
}

func TestMatchManager_PlayRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a winning round and keeps score", func(t *testing.T) {
		// Given: a new match
		manager := newManager()
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
		require.NoError(t, err)

		// When: X completes the top row
		var result entity.RoundResult
		for _, move := range [][2]int{{0, 0}, {1, 1}, {0, 1}, {2, 2}, {0, 2}} {
			match, result, err = manager.PlayRound(ctx, match.ID, move[0], move[1])
			require.NoError(t, err)
		}

		// Then: X wins the round and the stored snapshot reflects it
		assert.Equal(t, entity.OutcomeWin, result.Outcome)
		assert.Equal(t, "Alice", result.Winner.Name)
		assert.Equal(t, entity.StatusWon, match.Status)
		assert.Equal(t, entity.MarkerX, match.Winner)
		assert.Equal(t, [2]int{1, 0}, match.Scores())
	})

	t.Run("Occupied cell returns ErrCellOccupied and changes nothing", func(t *testing.T) {
		// Given: X has played the centre
		manager := newManager()
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
		require.NoError(t, err)
		before, _, err := manager.PlayRound(ctx, match.ID, 1, 1)
		require.NoError(t, err)

		// When: O plays the centre too
		_, result, err := manager.PlayRound(ctx, match.ID, 1, 1)

		// Then: the move is rejected and the stored match is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.RoundResult{}, result)
		after, err := manager.GetMatch(ctx, match.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, 1, after.Turn)
	})

	t.Run("Out of range returns ErrInvalidCell", func(t *testing.T) {
		manager := newManager()
		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
		require.NoError(t, err)

		_, _, err = manager.PlayRound(ctx, match.ID, 3, 0)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Unknown match returns ErrMatchNotFound", func(t *testing.T) {
		manager := newManager()

		_, _, err := manager.PlayRound(ctx, "missing", 0, 0)

		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("Corrupt snapshot is reported", func(t *testing.T) {
		// Given: the repository returns a broken snapshot
		repo := &mockMatchRepo{}
		repo.On("GetByID", mock.Anything, "bad").Return(&entity.Match{ID: "bad", Rules: entity.DefaultRules()}, nil).Once()
		manager := NewMatchManager(discardLogger(), repo, entity.DefaultRules())

		// When: a move is played on it
		_, _, err := manager.PlayRound(ctx, "bad", 0, 0)

		// Then: ErrCorruptMatch is returned and nothing is saved
		require.ErrorIs(t, err, apperror.ErrCorruptMatch)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Save failure is returned", func(t *testing.T) {
		// Given: a stored match and a repository that fails on update
		stored := &entity.Match{
			ID:     "m1",
			Rules:  entity.DefaultRules(),
			Board:  make([]entity.Marker, 9),
			Status: entity.StatusPlaying,
			Round:  1,
			Players: [2]entity.Player{
				{Name: "Alice", Marker: entity.MarkerX},
				{Name: "Bob", Marker: entity.MarkerO},
			},
		}
		repo := &mockMatchRepo{}
		repo.On("GetByID", mock.Anything, "m1").Return(stored, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Match")).Return(errRedisDown).Once()
		manager := NewMatchManager(discardLogger(), repo, entity.DefaultRules())

		// When: a move is played
		match, _, err := manager.PlayRound(ctx, "m1", 0, 0)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, match)
		repo.AssertExpectations(t)
	})
}

func TestMatchManager_ResetRound(t *testing.T) {
	ctx := context.Background()

	// Given: a drawn round
	manager := newManager()
	match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
	require.NoError(t, err)
	for _, move := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}} {
		_, _, err = manager.PlayRound(ctx, match.ID, move[0], move[1])
		require.NoError(t, err)
	}

	// When: the round is reset
	match, err = manager.ResetRound(ctx, match.ID)

	// Then: the board is cleared, X moves first and the draw points remain
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPlaying, match.Status)
	assert.Equal(t, 0, match.Turn)
	assert.Equal(t, 2, match.Round)
	assert.Equal(t, [2]int{1, 1}, match.Scores())
	moves, err := manager.AvailableMoves(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, moves, 9)
}

func TestMatchManager_EndMatch(t *testing.T) {
	ctx := context.Background()

	// Given: an existing match
	manager := newManager()
	match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
	require.NoError(t, err)

	// When: it is ended
	require.NoError(t, manager.EndMatch(ctx, match.ID))

	// Then: it can no longer be found, and ending it again fails
	_, err = manager.GetMatch(ctx, match.ID)
	require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	require.ErrorIs(t, manager.EndMatch(ctx, match.ID), apperror.ErrMatchNotFound)
}

func TestMatchManager_AdvanceRound(t *testing.T) {
	ctx := context.Background()

	newFinishedMatch := func(t *testing.T, manager *MatchManager) *entity.Match {
		t.Helper()

		match, err := manager.CreateMatch(ctx, Setup{PlayerOne: "Alice", PlayerTwo: "Bob"})
		require.NoError(t, err)
		for _, move := range [][2]int{{0, 0}, {1, 1}, {0, 1}, {2, 2}, {0, 2}} {
			match, _, err = manager.PlayRound(ctx, match.ID, move[0], move[1])
			require.NoError(t, err)
		}

		return match
	}

	t.Run("Resets a finished round", func(t *testing.T) {
		// Given: round 1 has been won
		manager := newManager()
		match := newFinishedMatch(t, manager)

		// When: round 1 is advanced
		advanced, ok, err := manager.AdvanceRound(ctx, match.ID, 1)

		// Then: round 2 starts with the score kept
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, advanced.Round)
		assert.Equal(t, entity.StatusPlaying, advanced.Status)
		assert.Equal(t, [2]int{1, 0}, advanced.Scores())
	})

	t.Run("Leaves a round that was already restarted", func(t *testing.T) {
		// Given: round 1 was won and manually reset
		manager := newManager()
		match := newFinishedMatch(t, manager)
		_, err := manager.ResetRound(ctx, match.ID)
		require.NoError(t, err)
		_, _, err = manager.PlayRound(ctx, match.ID, 1, 1)
		require.NoError(t, err)

		// When: the delayed advance for round 1 fires
		current, ok, err := manager.AdvanceRound(ctx, match.ID, 1)

		// Then: round 2 keeps its move
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, entity.MarkerX, current.Board[4])
	})
}
