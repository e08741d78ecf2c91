package board

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Canvas is the raster surface every client derives from its stroke
// history. It is a cache, not a source of truth: any content must be
// reproducible by replaying a History from blank.
//
// The active style is shared mutable state between the capture side
// and the reconciliation side; any routine that overrides it for
// historical fidelity (Replay, DrawStroke) restores it before
// returning.
type Canvas struct {
	mu      sync.Mutex
	img     *image.RGBA
	w, h    int
	active  Style
	penX    float64
	penY    float64
	hasPath bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		w:      w,
		h:      h,
		active: DefaultStyle(),
	}
	c.fillWhite()
	return c
}

// Clear wipes the raster back to the blank white background and drops
// any open path.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fillWhite()
	c.hasPath = false
}

func (c *Canvas) SetStyle(s Style) {
	c.mu.Lock()
	c.active = s
	c.mu.Unlock()
}

func (c *Canvas) ActiveStyle() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartPath begins a new visual path at (x, y) without painting.
func (c *Canvas) StartPath(x, y float64) {
	c.mu.Lock()
	c.penX, c.penY = x, y
	c.hasPath = true
	c.mu.Unlock()
}

// LineTo extends the current path to (x, y) with the active style.
// Without an open path it is ignored.
func (c *Canvas) LineTo(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lineTo(x, y, c.active)
}

// DrawPoint paints one preview point from the wire. The point's own
// color/size are authoritative when present; otherwise the active
// style is used. An end point just closes the path.
func (c *Canvas) DrawPoint(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch p.Type {
	case PointStart:
		c.penX, c.penY = p.X, p.Y
		c.hasPath = true
	case PointMove:
		st := c.active
		if p.Color != "" {
			st.Color = p.Color
		}
		if p.Size > 0 {
			st.Width = p.Size
		}
		c.lineTo(p.X, p.Y, st)
	case PointEnd:
		c.hasPath = false
	}
}

// DrawStroke paints a finalized stroke as one continuous path using
// the stroke's stored style, then restores the viewer's selection.
func (c *Canvas) DrawStroke(s Stroke) {
	c.mu.Lock()
	defer c.mu.Unlock()
	saved := c.active
	c.active = s.Style()
	for i, pt := range s.Paths {
		if i == 0 {
			c.penX, c.penY = pt.X, pt.Y
			c.hasPath = true
			continue
		}
		c.lineTo(pt.X, pt.Y, c.active)
	}
	c.active = saved
	c.hasPath = false
}

// Replay rebuilds the raster from blank by painting every stroke in
// order. The active style is untouched once it returns.
func (c *Canvas) Replay(strokes []Stroke) {
	c.mu.Lock()
	c.fillWhite()
	c.hasPath = false
	c.mu.Unlock()
	for _, s := range strokes {
		c.DrawStroke(s)
	}
}

// Image exposes the raster for rendering and pixel comparison.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) fillWhite() {
	px := c.img.Pix
	for i := range px {
		px[i] = 0xff
	}
}

func (c *Canvas) lineTo(x, y float64, st Style) {
	if !c.hasPath {
		return
	}
	c.paintSegment(c.penX, c.penY, x, y, ParseColor(st.Color), st.Width)
	c.penX, c.penY = x, y
}

// paintSegment stamps round pen tips along the segment, which gives
// the round-cap/round-join look of the original canvas context.
func (c *Canvas) paintSegment(x0, y0, x1, y1 float64, col color.RGBA, width float64) {
	r := width / 2
	if r < 0.5 {
		r = 0.5
	}
	steps := int(math.Hypot(x1-x0, y1-y0)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.stamp(x0+(x1-x0)*t, y0+(y1-y0)*t, r, col)
	}
}

func (c *Canvas) stamp(cx, cy, r float64, col color.RGBA) {
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= c.h {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= c.w {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

var namedColors = map[string]color.RGBA{
	"black":  {A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"red":    {R: 255, A: 255},
	"green":  {G: 255, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
}

// ParseColor accepts #rrggbb hex and a handful of names; anything else
// paints black rather than failing.
func ParseColor(s string) color.RGBA {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			}
		}
	}
	return color.RGBA{A: 255}
}
