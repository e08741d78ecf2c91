package board

// PointType marks where a sampled point sits inside a gesture.
type PointType string

const (
	PointStart PointType = "start"
	PointMove  PointType = "move"
	PointEnd   PointType = "end"
)

// Point is one sampled pointer position belonging to an in-progress
// stroke. Color/Size travel with the point so a receiver can paint the
// live preview before the owning stroke arrives.
type Point struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Type  PointType `json:"type"`
	Color string    `json:"color,omitempty"`
	Size  float64   `json:"size,omitempty"`
}

// Stroke is one complete pen-down-to-pen-up gesture. Paths is ordered
// by capture time; the first element is logically a start point.
type Stroke struct {
	Color string  `json:"strokeColor"`
	Width float64 `json:"strokeWidth"`
	Paths []Point `json:"paths"`
}

// Style is the pen selection a drawing surface paints with.
type Style struct {
	Color string
	Width float64
}

// DefaultStyle matches the initial tool selection of the app.
func DefaultStyle() Style {
	return Style{Color: "#000000", Width: 6}
}

// Style returns the stroke's own styling with defaults filled in, so a
// stroke from a sparse payload still renders.
func (s Stroke) Style() Style {
	st := Style{Color: s.Color, Width: s.Width}
	if st.Color == "" {
		st.Color = "#000000"
	}
	if st.Width <= 0 {
		st.Width = 3
	}
	return st
}
