package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"doodlz/internal/chat"
)

// chatPane shows normalized chat/guess messages and takes guess input.
type chatPane struct {
	box    *fyne.Container
	scroll *container.Scroll
	entry  *widget.Entry
	root   fyne.CanvasObject
}

func newChatPane(onGuess func(text string)) *chatPane {
	p := &chatPane{box: container.NewVBox()}
	p.scroll = container.NewVScroll(p.box)
	p.scroll.SetMinSize(fyne.NewSize(220, 300))

	p.entry = widget.NewEntry()
	p.entry.SetPlaceHolder("Type your guess...")
	p.entry.OnSubmitted = func(text string) {
		if text == "" {
			return
		}
		onGuess(text)
		p.entry.SetText("")
	}

	p.root = container.NewBorder(nil, p.entry, nil, nil, p.scroll)
	return p
}

// add appends one message; call on the fyne goroutine.
func (p *chatPane) add(m chat.Message) {
	label := widget.NewLabel(formatMessage(m))
	label.Wrapping = fyne.TextWrapWord
	switch m.Kind {
	case chat.KindCorrectGuess:
		label.Importance = widget.SuccessImportance
	case chat.KindCloseGuess:
		if m.NearExact() {
			label.Importance = widget.HighImportance
		} else {
			label.Importance = widget.WarningImportance
		}
	}
	p.box.Add(label)
	p.scroll.ScrollToBottom()
}

func formatMessage(m chat.Message) string {
	switch m.Kind {
	case chat.KindChat:
		return fmt.Sprintf("%s: %s", m.Sender.Name, m.Text)
	case chat.KindCorrectGuess:
		return fmt.Sprintf("%s guessed the word!", m.PlayerName)
	case chat.KindCloseGuess:
		if m.NearExact() {
			return fmt.Sprintf("%s is SO close!", m.PlayerName)
		}
		return fmt.Sprintf("%s is close...", m.PlayerName)
	}
	return m.Text
}
