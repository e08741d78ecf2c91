// Package capture turns raw pointer input into the outgoing point and
// stroke stream. Only the current host produces any output; everyone
// else's input is a no-op at this layer even if the UI forgets to
// disable its controls.
package capture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"doodlz/internal/board"
	"doodlz/internal/wire"
)

// sendInterval is the minimum spacing between outbound move points,
// roughly one per display frame. All sampled points are kept locally
// regardless, so the finalized stroke has full fidelity.
const sendInterval = 16 * time.Millisecond

// Sender writes envelopes to the room connection.
type Sender interface {
	Send(wire.Envelope) error
}

// Capturer is the Idle/Capturing state machine for the local pointer.
// The host check runs at every transition, not once: host assignment
// can move mid-session and a former host is locked out immediately.
type Capturer struct {
	mu      sync.Mutex
	canvas  *board.Canvas
	history *board.History
	send    Sender
	isHost  func() bool
	log     zerolog.Logger

	now       func() time.Time
	limiter   *rate.Limiter
	capturing bool
	points    []board.Point
	style     board.Style
}

func New(canvas *board.Canvas, history *board.History, send Sender, isHost func() bool, log zerolog.Logger) *Capturer {
	return &Capturer{
		canvas:  canvas,
		history: history,
		send:    send,
		isHost:  isHost,
		log:     log,
		now:     time.Now,
		style:   board.DefaultStyle(),
	}
}

// Begin handles pointer-down: start a fresh point sequence, paint a
// new path locally and emit the start point unthrottled.
func (c *Capturer) Begin(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capturing || !c.isHost() {
		return
	}
	c.capturing = true
	c.points = c.points[:0]
	c.limiter = rate.NewLimiter(rate.Every(sendInterval), 1)
	c.limiter.AllowN(c.now(), 1) // the start point spends the first slot

	c.canvas.StartPath(x, y)
	p := board.Point{X: x, Y: y, Type: board.PointStart, Color: c.style.Color, Size: c.style.Width}
	c.points = append(c.points, p)
	c.emitPoint(p)
}

// Move handles pointer-move: the point is always retained and painted
// locally, but only forwarded when the send interval has elapsed.
func (c *Capturer) Move(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.capturing {
		return
	}
	if !c.isHost() {
		// Host reassigned mid-gesture: drop the gesture entirely.
		c.abort()
		return
	}
	p := board.Point{X: x, Y: y, Type: board.PointMove, Color: c.style.Color, Size: c.style.Width}
	c.points = append(c.points, p)
	c.canvas.LineTo(x, y)
	if c.limiter.AllowN(c.now(), 1) {
		c.emitPoint(p)
	}
}

// End handles pointer-up/-leave/-cancel: emit the end point
// unthrottled, assemble the finalized stroke, append it to the local
// history and replicate it whole. The sparse move stream is only a
// preview; this stroke is the system of record.
func (c *Capturer) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.capturing {
		return
	}
	if !c.isHost() {
		c.abort()
		return
	}
	c.capturing = false

	c.emitPoint(board.Point{Type: board.PointEnd, Color: c.style.Color, Size: c.style.Width})

	stroke := board.Stroke{
		Color: c.style.Color,
		Width: c.style.Width,
		Paths: append([]board.Point(nil), c.points...),
	}
	c.points = c.points[:0]
	c.history.Append(stroke)

	env, err := wire.New(wire.TypeStroke, stroke)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode stroke")
		return
	}
	if err := c.send.Send(env); err != nil {
		c.log.Warn().Err(err).Msg("send stroke")
	}
}

// Capturing reports whether a gesture is in progress.
func (c *Capturer) Capturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capturing
}

// SetColor changes the pen color for subsequent strokes. Style changes
// are a host-only control.
func (c *Capturer) SetColor(color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isHost() {
		return
	}
	c.style.Color = color
	c.canvas.SetStyle(c.style)
}

// SetWidth changes the pen width for subsequent strokes.
func (c *Capturer) SetWidth(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isHost() {
		return
	}
	c.style.Width = w
	c.canvas.SetStyle(c.style)
}

// Style returns the current tool selection.
func (c *Capturer) Style() board.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// Clear wipes the local canvas and history and tells the room to do
// the same. Host-only.
func (c *Capturer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isHost() {
		return
	}
	c.canvas.Clear()
	c.history.Clear()
	env, _ := wire.New(wire.TypeClear, struct{}{})
	if err := c.send.Send(env); err != nil {
		c.log.Warn().Err(err).Msg("send clear")
	}
}

// Undo asks the server to drop the last stroke; the authoritative
// result comes back as an undo envelope. Host-only.
func (c *Capturer) Undo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isHost() {
		return
	}
	env, _ := wire.New(wire.TypeUndo, struct{}{})
	if err := c.send.Send(env); err != nil {
		c.log.Warn().Err(err).Msg("send undo")
	}
}

func (c *Capturer) abort() {
	c.capturing = false
	c.points = c.points[:0]
}

func (c *Capturer) emitPoint(p board.Point) {
	env, err := wire.New(wire.TypeDrawPoint, p)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode point")
		return
	}
	if err := c.send.Send(env); err != nil {
		c.log.Warn().Err(err).Msg("send point")
	}
}
