package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionConnect      = "connect"
	actionCellClick    = "cell:click"
	actionModeSelect   = "mode:select"
	actionGameReset    = "game:reset"
	actionSessionClose = "session:close"

	actionGameState = "game:state"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is what the client sends along with an action.
type Payload struct {
	SessionID string `json:"session_id,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newStateMessage(session *entity.Session) ([]byte, error) {
	return newMessage(actionGameState, ResponsePayload{
		Session: session,
		Message: session.Game.StatusMessage(),
	})
}

func newMessage(action string, payload ResponsePayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
}
