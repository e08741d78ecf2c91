// Package export writes a snapshot of the stroke history to PDF.
package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"doodlz/internal/board"
)

// canvas pixels per PDF millimeter; an A4 landscape page fits the
// default 1024-wide board at this scale.
const pxPerMM = 4.0

// PDF renders the strokes onto one A4 landscape page.
func PDF(w io.Writer, strokes []board.Stroke) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	for _, st := range strokes {
		col := board.ParseColor(st.Style().Color)
		p.SetDrawColor(int(col.R), int(col.G), int(col.B))
		p.SetLineWidth(st.Style().Width / pxPerMM)
		p.SetLineCapStyle("round")
		for i := 1; i < len(st.Paths); i++ {
			p.Line(
				st.Paths[i-1].X/pxPerMM, st.Paths[i-1].Y/pxPerMM,
				st.Paths[i].X/pxPerMM, st.Paths[i].Y/pxPerMM,
			)
		}
	}
	return p.Output(w)
}
