package wire

import "doodlz/internal/board"

// Player is a roster entry. Field names are marshaled as-is; the
// server's user_joined snapshot and chat sender objects use the same
// capitalized keys.
type Player struct {
	ID     string
	Name   string
	Points int
}

// UserLeft is the user_left payload.
type UserLeft struct {
	UserID string `json:"userId"`
}

// GameState is the full-state synchronization payload delivered on
// (re)connect. HostID may be empty on older servers.
type GameState struct {
	Strokes []board.Stroke `json:"strokes"`
	HostID  string         `json:"hostId"`
}

// UndoPayload tolerates both undo variants: newer servers push the
// remaining history under strokes, older ones push an empty object.
// A nil Strokes means the client derives the undo itself.
type UndoPayload struct {
	Strokes *[]board.Stroke `json:"strokes"`
}

// Guess is the outbound guess payload; the server fills in the sender.
type Guess struct {
	Guess string `json:"guess"`
}
