package board

import "sync"

// History is the ordered record of finalized strokes for a session.
// Append-only except for Undo (drop last) and Clear (empty); the
// raster is always rebuildable from it.
type History struct {
	mu      sync.RWMutex
	strokes []Stroke
}

func NewHistory() *History {
	return &History{strokes: make([]Stroke, 0)}
}

func (h *History) Append(s Stroke) {
	h.mu.Lock()
	h.strokes = append(h.strokes, s)
	h.mu.Unlock()
}

// Undo drops the most recent stroke. Undo on an empty history is a
// no-op and reports false.
func (h *History) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.strokes) == 0 {
		return false
	}
	h.strokes = h.strokes[:len(h.strokes)-1]
	return true
}

func (h *History) Clear() {
	h.mu.Lock()
	h.strokes = h.strokes[:0]
	h.mu.Unlock()
}

// Replace swaps in a server-supplied history wholesale. A nil slice
// replaces with empty, never with nil-panics downstream.
func (h *History) Replace(strokes []Stroke) {
	h.mu.Lock()
	h.strokes = make([]Stroke, len(strokes))
	copy(h.strokes, strokes)
	h.mu.Unlock()
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.strokes)
}

// Snapshot returns a copy safe to iterate while the history keeps
// changing.
func (h *History) Snapshot() []Stroke {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}
