package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

const (
	actionMatchNew   = "match:new"
	actionMatchJoin  = "match:join"
	actionMatchTurn  = "match:turn"
	actionMatchReset = "match:reset"
	actionMatchLeave = "match:leave"

	// pushed by the server only
	actionMatchRound = "match:round"
	actionError      = "error"
)

var (
	errUnknownAction   = errors.New("unknown action")
	errMatchIDRequired = errors.New("match_id is required")
	errCellRequired    = errors.New("row and col are required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Setup   *usecase.Setup      `json:"setup,omitempty"`
	MatchID string              `json:"match_id,omitempty"`
	Row     *int                `json:"row,omitempty"`
	Col     *int                `json:"col,omitempty"`
	Match   *entity.Match       `json:"match,omitempty"`
	Result  *entity.RoundResult `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
