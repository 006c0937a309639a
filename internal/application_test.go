package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-series/internal/config"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

func TestNewMatchRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory storage", func(t *testing.T) {
		// Given: the default storage
		conf := &config.Config{Storage: config.StorageMemory}

		// When: the repository is built
		repo, closeStorage, err := newMatchRepository(ctx, conf)

		// Then: matches round-trip without any server
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Match{ID: "m1", Rules: entity.DefaultRules()}))

		got, err := repo.GetByID(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "m1", got.ID)
		assert.NoError(t, closeStorage())
	})

	t.Run("Redis storage needs a host", func(t *testing.T) {
		conf := &config.Config{Storage: config.StorageRedis}

		_, _, err := newMatchRepository(ctx, conf)

		require.ErrorIs(t, err, ErrAddrNotFound)
	})
}

func TestRunApp_RejectsBadRules(t *testing.T) {
	conf := &config.Config{
		Storage: config.StorageMemory,
		Rules:   config.Rules{BoardSize: 0, WinPoints: 1, DrawPoints: 1, SeriesTarget: 3},
	}

	err := RunApp(discardLogger(), conf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rules")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
