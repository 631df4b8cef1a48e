package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
)

const (
	actionConnect  = "connect"
	actionNewGame  = "game:new"
	actionJoinGame = "game:join"
	actionTurn     = "game:turn"
	actionRestart  = "game:restart"
	actionLeave    = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player         `json:"player,omitempty"`
	Game   *entity.Game           `json:"game,omitempty"`
	Params *usecase.NewGameParams `json:"params,omitempty"`
	Move   *tictactoe.Move        `json:"move,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{Action: action, Payload: data}, nil
}
