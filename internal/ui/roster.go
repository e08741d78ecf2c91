package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"doodlz/internal/wire"
)

// rosterPane lists connected players with their scores, marking the
// ones who already guessed the word this round.
type rosterPane struct {
	box  *fyne.Container
	root fyne.CanvasObject
}

func newRosterPane() *rosterPane {
	p := &rosterPane{box: container.NewVBox()}
	scroll := container.NewVScroll(p.box)
	scroll.SetMinSize(fyne.NewSize(160, 300))
	p.root = scroll
	return p
}

// update rebuilds the list; call on the fyne goroutine.
func (p *rosterPane) update(players []wire.Player, guessed map[string]bool) {
	p.box.RemoveAll()
	for _, pl := range players {
		name := pl.Name
		if name == "" {
			name = pl.ID
		}
		text := fmt.Sprintf("%s (%d pts)", name, pl.Points)
		label := widget.NewLabel(text)
		if guessed[pl.Name] {
			label.Importance = widget.SuccessImportance
		}
		p.box.Add(label)
	}
	p.box.Refresh()
}
