package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

var errArgument = errors.New("invalid argument")

type matchUseCase interface {
	CreateMatch(ctx context.Context, setup usecase.Setup) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	PlayRound(ctx context.Context, id string, row, col int) (*entity.Match, entity.RoundResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	AvailableMoves(ctx context.Context, id string) ([]entity.Position, error)
}

// Server exposes the match operations as MCP tools.
type Server struct {
	logger    *slog.Logger
	matches   matchUseCase
	mcpServer *server.MCPServer
}

func New(logger *slog.Logger, matches matchUseCase) *Server {
	that := &Server{
		logger:  logger,
		matches: matches,
	}

	that.mcpServer = server.NewMCPServer(
		"Tic-Tac-Toe Series",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tic-Tac-Toe Series - MCP Interface

Two players alternate placing X and O on an N x N board. Completing a full row,
column or diagonal wins the round. A full board without a line is a draw and
credits both players. Rounds repeat until one player reaches the series target
with a strictly higher score.

AVAILABLE TOOLS:
- new_match: start a series (mode "pvp" or "bot")
- play_round: place the current player's marker at row/col (0-based)
- reset_round: clear the board for the next round, keeping scores
- get_match: show board, turn and scores
- available_moves: list empty cells`),
	)

	that.registerTools()

	return that
}

func (that *Server) MCPServer() *server.MCPServer {
	return that.mcpServer
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (that *Server) ServeStdio() error {
	if err := server.ServeStdio(that.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}

	return nil
}

// Handler answers single JSON-RPC messages posted over HTTP.
func (that *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		response := that.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(response); err != nil {
			that.logger.Error("failed to encode mcp response", "method", "Handler", "error", err)
		}
	})
}

func (that *Server) registerTools() {
	matchID := map[string]interface{}{
		"type":        "string",
		"description": "Match ID returned by new_match",
	}

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "new_match",
		Description: "Start a new series between two players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_one": map[string]interface{}{
					"type":        "string",
					"description": "Name of the first player (X, moves first)",
				},
				"player_two": map[string]interface{}{
					"type":        "string",
					"description": "Name of the second player (O); ignored in bot mode",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "pvp (default) or bot",
					"enum":        []string{entity.ModeHuman, entity.ModeBot},
				},
			},
			Required: []string{"player_one"},
		},
	}, that.handleNewMatch)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "play_round",
		Description: "Place the current player's marker",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchID,
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "0-based row",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "0-based column",
				},
			},
			Required: []string{"match_id", "row", "col"},
		},
	}, that.handlePlayRound)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_round",
		Description: "Clear the board for the next round; scores are kept",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"match_id": matchID},
			Required:   []string{"match_id"},
		},
	}, that.handleResetRound)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "get_match",
		Description: "Show the board, whose turn it is and the scores",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"match_id": matchID},
			Required:   []string{"match_id"},
		},
	}, that.handleGetMatch)

	that.mcpServer.AddTool(mcp.Tool{
		Name:        "available_moves",
		Description: "List the empty cells of the current round",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"match_id": matchID},
			Required:   []string{"match_id"},
		},
	}, that.handleAvailableMoves)
}

func (that *Server) handleNewMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	setup := usecase.Setup{
		PlayerOne: stringArg(args, "player_one"),
		PlayerTwo: stringArg(args, "player_two"),
		Mode:      stringArg(args, "mode"),
	}

	match, err := that.matches.CreateMatch(ctx, setup)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	that.logger.Info("match created", "method", "handleNewMatch", "matchID", match.ID)

	return mcp.NewToolResultText(formatMatch(match, "")), nil
}

func (that *Server) handlePlayRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	match, result, err := that.matches.PlayRound(ctx, stringArg(args, "match_id"), row, col)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatch(match, describeResult(result))), nil
}

func (that *Server) handleResetRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	match, err := that.matches.ResetRound(ctx, stringArg(args, "match_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatch(match, "")), nil
}

func (that *Server) handleGetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	match, err := that.matches.GetMatch(ctx, stringArg(args, "match_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatch(match, "")), nil
}

func (that *Server) handleAvailableMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	moves, err := that.matches.AvailableMoves(ctx, stringArg(args, "match_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(moves) == 0 {
		return mcp.NewToolResultText("No moves available"), nil
	}

	cells := make([]string, 0, len(moves))
	for _, move := range moves {
		cells = append(cells, fmt.Sprintf("(%d,%d)", move.Row, move.Col))
	}

	return mcp.NewToolResultText(fmt.Sprintf("Available moves (row,col): %s", strings.Join(cells, " "))), nil
}

func stringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}

// intArg accepts JSON numbers, which arrive as float64.
func intArg(args map[string]interface{}, key string) (int, error) {
	switch value := args[key].(type) {
	case float64:
		if value != float64(int(value)) {
			return 0, fmt.Errorf("%w: %s must be a whole number", errArgument, key)
		}
		return int(value), nil
	case int:
		return value, nil
	default:
		return 0, fmt.Errorf("%w: %s is required", errArgument, key)
	}
}

func describeResult(result entity.RoundResult) string {
	switch {
	case result.IsDraw():
		return "Round drawn: both players score."
	case result.IsTerminal() && result.Winner != nil:
		return fmt.Sprintf("%s (%s) wins the round.", result.Winner.Name, result.Winner.Marker)
	default:
		return ""
	}
}

func formatMatch(match *entity.Match, headline string) string {
	var buf bytes.Buffer

	renderer := terminal.NewPlainRenderer(&buf)

	if headline != "" {
		buf.WriteString(headline + "\n")
	}

	fmt.Fprintf(&buf, "Match: %s\n", match.ID)
	buf.WriteString(renderer.Scoreboard(match))
	buf.WriteString(renderer.Board(match))

	switch {
	case match.IsSeriesOver():
		buf.WriteString(renderer.Champion(match) + "\n")
	case match.IsFinished():
		buf.WriteString("Round over: call reset_round to continue.\n")
	default:
		current := match.Players[match.Turn]
		fmt.Fprintf(&buf, "Turn: %s (%s)\n", current.Name, current.Marker)
	}

	return buf.String()
}
