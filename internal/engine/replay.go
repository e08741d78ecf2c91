package engine

import (
	"time"

	"doodlz/internal/board"
)

// replayDelay is the pause between points when history is re-performed
// for a newcomer.
const replayDelay = 8 * time.Millisecond

// Scheduler defers work without blocking, so a multi-second replay
// never starves input handling. Tests substitute a manual
// implementation and single-step the animation.
type Scheduler interface {
	// AfterFunc runs f after d and returns a cancel func.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// TimerScheduler is the production Scheduler.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// replayRun is a cursor over (stroke, point) pairs. It paints one
// point per tick with each stroke's own styling and hands the saved
// viewer style back when it finishes or is cancelled.
type replayRun struct {
	strokes []board.Stroke
	s, p    int
	saved   board.Style
	cancel  func()
}

// startReplay begins a paced replay of strokes, superseding any replay
// already running. Callers hold e.mu.
func (e *Engine) startReplay(strokes []board.Stroke) {
	e.stopReplay()
	e.canvas.Clear()

	run := &replayRun{strokes: strokes, saved: e.canvas.ActiveStyle()}
	run.skipEmpty()
	if run.done() {
		return
	}
	e.replay = run
	run.cancel = e.sched.AfterFunc(0, func() { e.step(run) })
}

// stopReplay cancels the current replay and restores the viewer's
// style. Callers hold e.mu.
func (e *Engine) stopReplay() {
	if e.replay == nil {
		return
	}
	if e.replay.cancel != nil {
		e.replay.cancel()
	}
	e.canvas.SetStyle(e.replay.saved)
	e.replay = nil
}

// step paints the point under the cursor and schedules the next one.
func (e *Engine) step(run *replayRun) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.replay != run {
		// Superseded by a newer game_state, a clear, or teardown.
		return
	}

	stroke := run.strokes[run.s]
	pt := stroke.Paths[run.p]
	e.canvas.SetStyle(stroke.Style())
	if run.p == 0 {
		e.canvas.StartPath(pt.X, pt.Y)
	} else {
		e.canvas.LineTo(pt.X, pt.Y)
	}
	e.notifyRefresh()

	run.advance()
	if run.done() {
		e.canvas.SetStyle(run.saved)
		e.replay = nil
		return
	}
	run.cancel = e.sched.AfterFunc(replayDelay, func() { e.step(run) })
}

func (r *replayRun) advance() {
	r.p++
	if r.p >= len(r.strokes[r.s].Paths) {
		r.s++
		r.p = 0
		r.skipEmpty()
	}
}

func (r *replayRun) skipEmpty() {
	for r.s < len(r.strokes) && len(r.strokes[r.s].Paths) == 0 {
		r.s++
	}
}

func (r *replayRun) done() bool {
	return r.s >= len(r.strokes)
}
