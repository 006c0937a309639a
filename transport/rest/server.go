package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

type matchUseCase interface {
	CreateMatch(ctx context.Context, setup usecase.Setup) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	PlayRound(ctx context.Context, id string, row, col int) (*entity.Match, entity.RoundResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	AvailableMoves(ctx context.Context, id string) ([]entity.Position, error)
	EndMatch(ctx context.Context, id string) error
}

type Server struct {
	logger  *slog.Logger
	matches matchUseCase
	router  *chi.Mux
}

// New builds the router. Extra handlers (the MCP endpoint) are mounted by
// path.
func New(logger *slog.Logger, matches matchUseCase, mounts map[string]http.Handler) *Server {
	server := &Server{
		logger:  logger.With("component", "rest"),
		matches: matches,
		router:  chi.NewRouter(),
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)

	server.router.Get("/ping", pingHandler)

	server.router.Route("/matches", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Post("/", server.handleCreateMatch)
		r.Get("/{id}", server.handleGetMatch)
		r.Delete("/{id}", server.handleEndMatch)
		r.Post("/{id}/moves", server.handlePlayRound)
		r.Get("/{id}/moves", server.handleAvailableMoves)
		r.Post("/{id}/reset", server.handleResetRound)
	})

	for path, handler := range mounts {
		server.router.Mount(path, handler)
	}

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - starts HTTP server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
