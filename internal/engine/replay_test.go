package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doodlz/internal/board"
	"doodlz/internal/wire"
)

func TestPacedReplaySingleSteps(t *testing.T) {
	f := newFixture("B")
	strokes := twoStrokes() // 2 + 3 points

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: strokes}))

	// One scheduled callback per point, plus the kick-off at delay 0.
	steps := 0
	for f.sched.step() {
		steps++
	}
	assert.Equal(t, 5, steps)

	want := board.NewCanvas(128, 96)
	want.Replay(strokes)
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}

func TestPacedReplayRestoresViewerStyle(t *testing.T) {
	f := newFixture("B")
	mine := board.Style{Color: "#9b59b6", Width: 11}
	f.canvas.SetStyle(mine)

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: twoStrokes()}))

	// Mid-replay the context carries historical styling.
	require.True(t, f.sched.step())
	assert.NotEqual(t, mine, f.canvas.ActiveStyle())

	f.sched.drain()
	assert.Equal(t, mine, f.canvas.ActiveStyle())
}

func TestNewGameStateSupersedesRunningReplay(t *testing.T) {
	f := newFixture("B")
	first := twoStrokes()
	second := []board.Stroke{{Color: "#2ecc71", Width: 5, Paths: []board.Point{
		{X: 5, Y: 5, Type: board.PointStart},
		{X: 100, Y: 50, Type: board.PointMove},
	}}}

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: first}))
	require.True(t, f.sched.step()) // partway through the first replay

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: second}))
	f.sched.drain()

	assert.Equal(t, 1, f.history.Len())
	want := board.NewCanvas(128, 96)
	want.Replay(second)
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}

func TestClearCancelsReplay(t *testing.T) {
	f := newFixture("B")
	mine := board.Style{Color: "#9b59b6", Width: 11}
	f.canvas.SetStyle(mine)

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: twoStrokes()}))
	require.True(t, f.sched.step())

	f.eng.HandleMessage(rawEnv(wire.TypeClear, `{}`))
	f.sched.drain()

	blank := board.NewCanvas(128, 96)
	assert.Equal(t, blank.Image().Pix, f.canvas.Image().Pix)
	assert.Equal(t, mine, f.canvas.ActiveStyle())
}

func TestCloseHaltsReplay(t *testing.T) {
	f := newFixture("B")
	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: twoStrokes()}))
	require.True(t, f.sched.step())
	partial := append([]uint8(nil), f.canvas.Image().Pix...)

	f.eng.Close()
	f.sched.drain()

	assert.Equal(t, partial, f.canvas.Image().Pix)
}

func TestReplaySkipsEmptyStrokes(t *testing.T) {
	f := newFixture("B")
	strokes := []board.Stroke{
		{Color: "#000000", Width: 3}, // no paths, malformed but tolerated
		{Color: "#e74c3c", Width: 4, Paths: []board.Point{
			{X: 10, Y: 10, Type: board.PointStart},
			{X: 50, Y: 50, Type: board.PointMove},
		}},
	}

	f.eng.HandleMessage(mustEnv(t, wire.TypeGameState, wire.GameState{Strokes: strokes}))
	f.sched.drain()

	want := board.NewCanvas(128, 96)
	want.Replay(strokes)
	assert.Equal(t, want.Image().Pix, f.canvas.Image().Pix)
}
