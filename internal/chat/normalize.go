// Package chat reconciles the several historical wire shapes for chat
// and guess outcomes into one representation the chat pane consumes.
package chat

import (
	"doodlz/internal/wire"
)

// Kind discriminates the normalized message variants.
type Kind string

const (
	KindChat         Kind = "chat_msg"
	KindCorrectGuess Kind = "correct_guess"
	KindCloseGuess   Kind = "close_guess"
)

// Message is the normalized chat-pane entry. It is only ever produced
// by Normalize, never built from the wire directly.
type Message struct {
	Kind         Kind
	Sender       wire.Player // chat only
	PlayerID     string
	PlayerName   string
	Text         string
	EditDistance int // close_guess only
}

// NearExact reports whether a close guess was off by nothing at all;
// the UI renders those differently from a merely proximate guess.
func (m Message) NearExact() bool {
	return m.Kind == KindCloseGuess && m.EditDistance == 0
}

// payload covers every field any of the chat-family shapes may carry.
type payload struct {
	Sender       *wire.Player `json:"sender"`
	PlayerID     string       `json:"playerId"`
	PlayerName   string       `json:"playerName"`
	Message      string       `json:"message"`
	EditDistance int          `json:"editDistance"`
}

// Normalize maps an envelope whose tag is not one of the drawing or
// roster tags into a Message. Legacy servers wrap the real envelope
// under a generic "message" tag; the inner type/data are unwrapped
// transparently. Unknown tags yield ok=false and the caller ignores
// the envelope.
func Normalize(env wire.Envelope) (Message, bool) {
	baseType := env.Type
	data := env.Data

	if env.Type == wire.TypeMessage {
		var inner wire.Envelope
		if err := env.Decode(&inner); err == nil && inner.Type != "" {
			baseType = inner.Type
			data = inner.Data
		}
	}

	var p payload
	unwrapped := wire.Envelope{Type: baseType, Data: data}
	if err := unwrapped.Decode(&p); err != nil {
		return Message{}, false
	}

	switch baseType {
	case wire.TypeChatMsg:
		sender := p.Sender
		if sender == nil {
			// Absence of a fully-formed sender never drops a chat line.
			sender = &wire.Player{ID: "unknown", Name: "User"}
			if p.PlayerID != "" {
				sender.ID = p.PlayerID
			}
			if p.PlayerName != "" {
				sender.Name = p.PlayerName
			}
		}
		return Message{
			Kind:   KindChat,
			Sender: *sender,
			Text:   p.Message,
		}, true
	case wire.TypeCorrectGuess:
		return Message{
			Kind:       KindCorrectGuess,
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Text:       p.Message,
		}, true
	case wire.TypeCloseGuess:
		return Message{
			Kind:         KindCloseGuess,
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			Text:         p.Message,
			EditDistance: p.EditDistance,
		}, true
	}
	return Message{}, false
}
