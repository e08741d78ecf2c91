// Package wire defines the envelope every message on the room
// connection travels in, and the typed payloads the client produces
// and consumes.
package wire

import "encoding/json"

// Tags the server sends or accepts.
const (
	TypeDrawPoint    = "draw_point"
	TypeStroke       = "stroke"
	TypeClear        = "clear"
	TypeUndo         = "undo"
	TypeUserJoined   = "user_joined"
	TypeUserLeft     = "user_left"
	TypeGameState    = "game_state"
	TypeGuess        = "guess"
	TypeChatMsg      = "chat_msg"
	TypeCorrectGuess = "correct_guess"
	TypeCloseGuess   = "close_guess"
	TypeMessage      = "message" // legacy wrapper around an inner {type,data}
)

// Envelope is the only shape ever written to or read from the
// transport.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// New wraps a payload into an envelope.
func New(t string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: t, Data: data}, nil
}

// Decode unmarshals the payload into v. Empty or absent data leaves v
// at its zero value: one malformed envelope must never halt the
// reconciliation pass.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
