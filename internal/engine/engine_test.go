package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doodlz/internal/board"
	"doodlz/internal/chat"
	"doodlz/internal/wire"
)

// manualScheduler queues callbacks for explicit stepping, so paced
// replays run deterministically without timers.
type manualScheduler struct {
	queue []func()
}

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) func() {
	m.queue = append(m.queue, f)
	cancelled := false
	return func() { cancelled = true; _ = cancelled }
}

func (m *manualScheduler) step() bool {
	if len(m.queue) == 0 {
		return false
	}
	f := m.queue[0]
	m.queue = m.queue[1:]
	f()
	return true
}

func (m *manualScheduler) drain() {
	for m.step() {
	}
}

type fixture struct {
	eng     *Engine
	canvas  *board.Canvas
	history *board.History
	sched   *manualScheduler
}

func newFixture(localID string) *fixture {
	f := &fixture{
		canvas:  board.NewCanvas(128, 96),
		history: board.NewHistory(),
		sched:   &manualScheduler{},
	}
	f.eng = New(localID, f.canvas, f.history, f.sched, zerolog.Nop())
	return f
}

func mustEnv(t *testing.T, typ string, payload any) wire.Envelope {
	t.Helper()
	env, err := wire.New(typ, payload)
	require.NoError(t, err)
	return env
}

func rawEnv(typ, data string) wire.Envelope {
	return wire.Envelope{Type: typ, Data: json.RawMessage(data)}
}

func twoStrokes() []board.Stroke {
	return []board.Stroke{
		{Color: "#e74c3c", Width: 4, Paths: []board.Point{
			{X: 10, Y: 10, Type: board.PointStart},
			{X: 40, Y: 30, Type: board.PointMove},
		}},
		{Color: "#3498db", Width: 6, Paths: []board.Point{
			{X: 70, Y: 10, Type: board.PointStart},
			{X: 20, Y: 80, Type: board.PointMove},
			{X: 90, Y: 90, Type: board.PointMove},
		}},
	}
}

func TestPeerSeesDrawPointPreviewAndStroke(t *testing.T) {
	// Host A draws start(10,10) -> move(20,20) -> end; peer B receives
	// the preview points and then the authoritative stroke.
	f := newFixture("B")

	f.eng.HandleMessage(mustEnv(t, wire.TypeDrawPoint,
		board.Point{X: 10, Y: 10, Type: board.PointStart, Color: "#000000", Size: 6}))
	f.eng.HandleMessage(mustEnv(t, wire.TypeDrawPoint,
		board.Point{X: 20, Y: 20, Type: board.PointMove, Color: "#000000", Size: 6}))

	stroke := board.Stroke{Color: "#000000", Width: 6, Paths: []board.Point{
		{X: 10, Y: 10, Type: board.PointStart},
		{X: 20, Y: 20, Type: board.PointMove},
		{Type: board.PointEnd},
	}}
	f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, stroke))

	assert.Equal(t, 1, f.history.Len())

	want := board.NewCanvas(128, 96)
	want.SetStyle(board.Style{Color: "#000000", Width: 6})
	want.StartPath(10, 10)
	want.LineTo(20, 20)
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}

func TestGameStateSetsHostAndHistory(t *testing.T) {
	f := newFixture("X")

	var gotHost *bool
	f.eng.OnHost = func(isHost bool) { gotHost = &isHost }

	strokes := twoStrokes()
	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: strokes, HostID: "X"}))

	// History is authoritative immediately, before the paced replay
	// animation finishes.
	assert.Equal(t, 2, f.history.Len())
	require.NotNil(t, gotHost)
	assert.True(t, *gotHost)
	assert.True(t, f.eng.IsHost())

	f.sched.drain()

	want := board.NewCanvas(128, 96)
	want.Replay(strokes)
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}

func TestGameStateForOtherHost(t *testing.T) {
	f := newFixture("Y")
	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{HostID: "X"}))
	f.sched.drain()
	assert.False(t, f.eng.IsHost())
}

func TestGameStateWithoutHostKeepsAssignment(t *testing.T) {
	f := newFixture("X")
	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{HostID: "X"}))
	f.sched.drain()
	require.True(t, f.eng.IsHost())

	// An older server omitting hostId must not revoke authority.
	f.eng.HandleMessage(rawEnv(wire.TypeGameState, `{"strokes":[]}`))
	f.sched.drain()
	assert.True(t, f.eng.IsHost())
}

func TestClearWipesEverything(t *testing.T) {
	f := newFixture("B")
	for _, s := range twoStrokes() {
		f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, s))
	}
	f.canvas.Replay(f.history.Snapshot())

	f.eng.HandleMessage(rawEnv(wire.TypeClear, `{}`))

	assert.Equal(t, 0, f.history.Len())
	blank := board.NewCanvas(128, 96)
	assert.Equal(t, blank.Image().Pix, f.canvas.Image().Pix)
}

func TestUndoDerivedLocally(t *testing.T) {
	f := newFixture("B")
	for _, s := range twoStrokes() {
		f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, s))
	}

	f.eng.HandleMessage(rawEnv(wire.TypeUndo, `{}`))

	assert.Equal(t, 1, f.history.Len())
	want := board.NewCanvas(128, 96)
	want.Replay(twoStrokes()[:1])
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	f := newFixture("B")
	f.eng.HandleMessage(rawEnv(wire.TypeUndo, `{}`))
	assert.Equal(t, 0, f.history.Len())
}

func TestUndoServerPushedStrokesWin(t *testing.T) {
	f := newFixture("B")
	for _, s := range twoStrokes() {
		f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, s))
	}

	pushed := twoStrokes()[:1]
	f.eng.HandleMessage(mustEnv(t, wire.TypeUndo, wire.UndoPayload{Strokes: &pushed}))

	assert.Equal(t, 1, f.history.Len())

	// Even an empty pushed history is authoritative.
	empty := []board.Stroke{}
	f.eng.HandleMessage(mustEnv(t, wire.TypeUndo, wire.UndoPayload{Strokes: &empty}))
	assert.Equal(t, 0, f.history.Len())
}

func TestUserJoinedReplacesRosterWholesale(t *testing.T) {
	f := newFixture("B")

	var got []wire.Player
	f.eng.OnRoster = func(players []wire.Player, _ map[string]bool) { got = players }

	f.eng.HandleMessage(mustEnv(t, wire.TypeUserJoined, map[string]wire.Player{
		"p1": {ID: "p1", Name: "Ann", Points: 10},
		"p2": {ID: "p2", Name: "Bea", Points: 0},
	}))
	require.Len(t, got, 2)

	// The next snapshot fully replaces, never merges.
	f.eng.HandleMessage(mustEnv(t, wire.TypeUserJoined, map[string]wire.Player{
		"p3": {ID: "p3", Name: "Cal", Points: 5},
	}))
	require.Len(t, got, 1)
	assert.Equal(t, "Cal", got[0].Name)
}

func TestUserLeftRemovesExactlyOne(t *testing.T) {
	f := newFixture("B")
	f.eng.HandleMessage(mustEnv(t, wire.TypeUserJoined, map[string]wire.Player{
		"P1": {ID: "P1", Name: "Ann"},
		"P2": {ID: "P2", Name: "Bea"},
		"P3": {ID: "P3", Name: "Cal"},
	}))

	f.eng.HandleMessage(mustEnv(t, wire.TypeUserLeft, wire.UserLeft{UserID: "P2"}))

	players := f.eng.Roster()
	require.Len(t, players, 2)
	ids := []string{players[0].ID, players[1].ID}
	assert.ElementsMatch(t, []string{"P1", "P3"}, ids)
}

func TestUserLeftUnknownIDIsTolerated(t *testing.T) {
	f := newFixture("B")
	f.eng.HandleMessage(mustEnv(t, wire.TypeUserLeft, wire.UserLeft{UserID: "ghost"}))
	assert.Empty(t, f.eng.Roster())
}

func TestUnknownTagGoesToChat(t *testing.T) {
	f := newFixture("B")

	var got []chat.Message
	f.eng.OnChat = func(m chat.Message) { got = append(got, m) }

	f.eng.HandleMessage(rawEnv("chat_msg", `{"sender":{"ID":"1","Name":"Ann","Points":0},"message":"hi"}`))
	require.Len(t, got, 1)
	assert.Equal(t, chat.KindChat, got[0].Kind)

	// Truly unknown tags are dropped without error.
	f.eng.HandleMessage(rawEnv("round_timer", `{"seconds":10}`))
	assert.Len(t, got, 1)
}

func TestCorrectGuessTracksGuessedNames(t *testing.T) {
	f := newFixture("B")
	f.eng.OnChat = func(chat.Message) {}

	f.eng.HandleMessage(rawEnv("correct_guess", `{"playerId":"p1","playerName":"Ann","message":"apple"}`))

	assert.True(t, f.eng.GuessedNames()["Ann"])
	assert.False(t, f.eng.GuessedNames()["Bea"])
}

func TestMalformedPayloadsDoNotPanic(t *testing.T) {
	f := newFixture("B")

	envs := []wire.Envelope{
		rawEnv(wire.TypeDrawPoint, `"garbage"`),
		rawEnv(wire.TypeStroke, `[1,2,3]`),
		rawEnv(wire.TypeUserJoined, `{"playerId":"x"}`), // legacy join ping, not a snapshot
		rawEnv(wire.TypeUserLeft, `42`),
		rawEnv(wire.TypeGameState, `"nope"`),
		rawEnv(wire.TypeUndo, `"nope"`),
		{Type: wire.TypeGameState},
	}
	for _, env := range envs {
		assert.NotPanics(t, func() { f.eng.HandleMessage(env) })
	}
	f.sched.drain()

	// A good message right after still lands.
	f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, twoStrokes()[0]))
	assert.Equal(t, 1, f.history.Len())
}

func TestClosedEngineIgnoresMessages(t *testing.T) {
	f := newFixture("B")
	f.eng.Close()
	f.eng.HandleMessage(mustEnv(t, wire.TypeStroke, twoStrokes()[0]))
	assert.Equal(t, 0, f.history.Len())
}
