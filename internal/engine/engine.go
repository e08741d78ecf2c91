// Package engine applies server-pushed events to the local canvas,
// stroke history and roster so every client converges on the
// authoritative session state.
package engine

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"doodlz/internal/board"
	"doodlz/internal/chat"
	"doodlz/internal/wire"
)

// Engine dispatches inbound envelopes. Every case is defensive: a
// malformed payload defaults to an empty value and is skipped, never
// surfaced as an error, so one bad message cannot stall the stream.
//
// The On* hooks feed the UI; they are invoked with the engine lock
// held, so implementations must not call back into the engine.
type Engine struct {
	mu      sync.Mutex
	localID string
	canvas  *board.Canvas
	history *board.History
	sched   Scheduler
	log     zerolog.Logger

	roster  map[string]wire.Player
	hostID  string
	guessed map[string]bool
	replay  *replayRun
	closed  bool

	OnRoster  func(players []wire.Player, guessed map[string]bool)
	OnHost    func(isHost bool)
	OnChat    func(msg chat.Message)
	OnRefresh func()
}

func New(localID string, canvas *board.Canvas, history *board.History, sched Scheduler, log zerolog.Logger) *Engine {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Engine{
		localID: localID,
		canvas:  canvas,
		history: history,
		sched:   sched,
		log:     log,
		roster:  make(map[string]wire.Player),
		guessed: make(map[string]bool),
	}
}

// HandleMessage applies one envelope. Unknown tags go through the chat
// normalizer and are silently dropped when nothing matches.
func (e *Engine) HandleMessage(env wire.Envelope) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	switch env.Type {
	case wire.TypeDrawPoint:
		e.handleDrawPoint(env)
	case wire.TypeStroke:
		e.handleStroke(env)
	case wire.TypeClear:
		e.handleClear()
	case wire.TypeUndo:
		e.handleUndo(env)
	case wire.TypeUserJoined:
		e.handleUserJoined(env)
	case wire.TypeUserLeft:
		e.handleUserLeft(env)
	case wire.TypeGameState:
		e.handleGameState(env)
	default:
		msg, ok := chat.Normalize(env)
		if !ok {
			e.log.Debug().Str("type", env.Type).Msg("dropping unknown envelope")
			return
		}
		if msg.Kind == chat.KindCorrectGuess && msg.PlayerName != "" {
			e.guessed[msg.PlayerName] = true
			e.notifyRoster()
		}
		if e.OnChat != nil {
			e.OnChat(msg)
		}
	}
}

// handleDrawPoint paints the live preview for the non-host. It never
// touches the history; a preview that misses throttled points is just
// visually rougher until the next full replay.
func (e *Engine) handleDrawPoint(env wire.Envelope) {
	var p board.Point
	if err := env.Decode(&p); err != nil {
		e.log.Debug().Err(err).Msg("bad draw_point payload")
		return
	}
	e.canvas.DrawPoint(p)
	e.notifyRefresh()
}

// handleStroke appends the authoritative replication unit. No repaint:
// the preview already rendered it.
func (e *Engine) handleStroke(env wire.Envelope) {
	var s board.Stroke
	if err := env.Decode(&s); err != nil {
		e.log.Debug().Err(err).Msg("bad stroke payload")
		return
	}
	e.history.Append(s)
}

func (e *Engine) handleClear() {
	e.stopReplay()
	e.canvas.Clear()
	e.history.Clear()
	e.notifyRefresh()
}

// handleUndo drops the last stroke and re-renders from the remaining
// history. When the server pushes the post-undo history (newer
// servers do) that snapshot wins; deriving locally is the fallback.
func (e *Engine) handleUndo(env wire.Envelope) {
	var p wire.UndoPayload
	if err := env.Decode(&p); err != nil {
		e.log.Debug().Err(err).Msg("bad undo payload")
		return
	}
	if p.Strokes != nil {
		e.history.Replace(*p.Strokes)
	} else {
		e.history.Undo()
	}
	e.stopReplay()
	e.canvas.Replay(e.history.Snapshot())
	e.notifyRefresh()
}

// handleUserJoined treats the payload as a wholesale roster snapshot;
// replacing rather than merging re-synchronizes after any missed join.
func (e *Engine) handleUserJoined(env wire.Envelope) {
	snapshot := make(map[string]wire.Player)
	if err := env.Decode(&snapshot); err != nil {
		e.log.Debug().Err(err).Msg("bad user_joined payload")
		return
	}
	e.roster = snapshot
	e.notifyRoster()
}

func (e *Engine) handleUserLeft(env wire.Envelope) {
	var p wire.UserLeft
	if err := env.Decode(&p); err != nil {
		e.log.Debug().Err(err).Msg("bad user_left payload")
		return
	}
	delete(e.roster, p.UserID)
	e.notifyRoster()
}

// handleGameState is the single catch-up point for a new or
// reconnected client; it supersedes any partial state accumulated
// before it arrived. History is set synchronously, the paced replay is
// cosmetic.
func (e *Engine) handleGameState(env wire.Envelope) {
	var gs wire.GameState
	if err := env.Decode(&gs); err != nil {
		e.log.Debug().Err(err).Msg("bad game_state payload")
		return
	}
	strokes := gs.Strokes
	if strokes == nil {
		strokes = []board.Stroke{}
	}
	e.history.Replace(strokes)
	e.startReplay(strokes)
	if gs.HostID != "" {
		e.hostID = gs.HostID
		if e.OnHost != nil {
			e.OnHost(e.hostID == e.localID)
		}
	}
	e.notifyRefresh()
}

// IsHost reports whether the local identity currently holds drawing
// authority. Callers must consult it at the moment of each action.
func (e *Engine) IsHost() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hostID != "" && e.hostID == e.localID
}

// Roster returns the connected players sorted by name for stable
// display.
func (e *Engine) Roster() []wire.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rosterSlice()
}

// GuessedNames returns the players who guessed correctly this session.
func (e *Engine) GuessedNames() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guessedCopy()
}

func (e *Engine) guessedCopy() map[string]bool {
	out := make(map[string]bool, len(e.guessed))
	for k, v := range e.guessed {
		out[k] = v
	}
	return out
}

// Close halts any in-progress replay and stops accepting envelopes.
// Called when the room connection tears down.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopReplay()
	e.closed = true
}

func (e *Engine) rosterSlice() []wire.Player {
	players := make([]wire.Player, 0, len(e.roster))
	for _, p := range e.roster {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players
}

func (e *Engine) notifyRoster() {
	if e.OnRoster != nil {
		e.OnRoster(e.rosterSlice(), e.guessedCopy())
	}
}

func (e *Engine) notifyRefresh() {
	if e.OnRefresh != nil {
		e.OnRefresh()
	}
}
