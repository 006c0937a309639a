package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

type matchUseCase interface {
	CreateMatch(ctx context.Context, setup usecase.Setup) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	PlayRound(ctx context.Context, id string, row, col int) (*entity.Match, entity.RoundResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	AdvanceRound(ctx context.Context, id string, round int) (*entity.Match, bool, error)
	EndMatch(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, message *Message, client *client) error

type Server struct {
	logger  *slog.Logger
	matches matchUseCase

	roundResetDelay time.Duration
	upgrader        websocket.Upgrader

	handlers map[string]handlerFunc

	subscribersMutex sync.RWMutex
	subscribers      map[string]map[*client]struct{}
}

// New builds the push server. A zero roundResetDelay disables the automatic
// reset between rounds.
func New(logger *slog.Logger, matches matchUseCase, roundResetDelay time.Duration) *Server {
	server := &Server{
		logger:          logger,
		matches:         matches,
		roundResetDelay: roundResetDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers:    make(map[string]handlerFunc),
		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionMatchNew] = server.handleNewMatch
	server.handlers[actionMatchJoin] = server.handleJoinMatch
	server.handlers[actionMatchTurn] = server.handleMatchTurn
	server.handlers[actionMatchReset] = server.handleMatchReset
	server.handlers[actionMatchLeave] = server.handleMatchLeave

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	c := newClient(conn)

	go c.writePump()

	c.readPump(req.Context(), that.dispatch)

	that.unsubscribe(c)
	c.close()
}

func (that *Server) dispatch(ctx context.Context, message *Message, c *client) {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		c.send(Message{Action: message.Action, Payload: mustMarshal(Payload{Error: errUnknownAction.Error()})})
		return
	}

	if err := handler(ctx, message, c); err != nil {
		log.Error("error processing message", "error", err)
	}
}

func (that *Server) subscribe(matchID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	if previous := c.matchID(); previous != "" && previous != matchID {
		that.removeLocked(previous, c)
	}

	if that.subscribers[matchID] == nil {
		that.subscribers[matchID] = make(map[*client]struct{})
	}

	that.subscribers[matchID][c] = struct{}{}
	c.setMatchID(matchID)
}

func (that *Server) unsubscribe(c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	if matchID := c.matchID(); matchID != "" {
		that.removeLocked(matchID, c)
		c.setMatchID("")
	}
}

func (that *Server) removeLocked(matchID string, c *client) {
	clients, ok := that.subscribers[matchID]
	if !ok {
		return
	}

	delete(clients, c)

	if len(clients) == 0 {
		delete(that.subscribers, matchID)
	}
}

// dropMatch detaches every subscriber of the match and returns them.
func (that *Server) dropMatch(matchID string) []*client {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	clients := make([]*client, 0, len(that.subscribers[matchID]))
	for c := range that.subscribers[matchID] {
		c.setMatchID("")
		clients = append(clients, c)
	}

	delete(that.subscribers, matchID)

	return clients
}

func (that *Server) broadcast(matchID string, message Message) {
	that.subscribersMutex.RLock()
	clients := make([]*client, 0, len(that.subscribers[matchID]))
	for c := range that.subscribers[matchID] {
		clients = append(clients, c)
	}
	that.subscribersMutex.RUnlock()

	for _, c := range clients {
		c.send(message)
	}
}

// scheduleNextRound resets the board after the configured pause, unless the
// round was restarted in the meantime.
func (that *Server) scheduleNextRound(matchID string, round int) {
	if that.roundResetDelay <= 0 {
		return
	}

	time.AfterFunc(that.roundResetDelay, func() {
		log := that.logger.With("method", "scheduleNextRound", "matchID", matchID)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		match, advanced, err := that.matches.AdvanceRound(ctx, matchID, round)
		if err != nil {
			log.Warn("failed to advance round", "error", err)
			return
		}

		if !advanced {
			return
		}

		that.broadcast(matchID, Message{Action: actionMatchRound, Payload: mustMarshal(Payload{Match: match})})
	})
}
