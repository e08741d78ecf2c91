// Package ui is the fyne front end: a board view fed by the capture
// machine, host controls, chat and roster panes driven by engine
// callbacks.
package ui

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"doodlz/internal/board"
	"doodlz/internal/capture"
	"doodlz/internal/chat"
	"doodlz/internal/engine"
	"doodlz/internal/export"
	"doodlz/internal/session"
	"doodlz/internal/wire"
)

// App bundles the already-wired core a window runs on top of.
type App struct {
	Session *session.Session
	Engine  *engine.Engine
	Capture *capture.Capturer
	Canvas  *board.Canvas
	History *board.History
	RoomID  string
	Log     zerolog.Logger
}

// Run opens the window, hooks the engine callbacks into the widgets,
// starts the session read loop and blocks until the window closes.
func Run(a App) {
	fa := fyneapp.New()
	win := fa.NewWindow("Doodlz - room " + a.RoomID)
	win.Resize(fyne.NewSize(1100, 700))

	view := newBoardView(a.Canvas, a.Capture)
	status := widget.NewLabel("Connected, waiting for the round")

	chatUI := newChatPane(func(text string) {
		env, err := wire.New(wire.TypeGuess, wire.Guess{Guess: text})
		if err != nil {
			return
		}
		if err := a.Session.Send(env); err != nil {
			a.Log.Warn().Err(err).Msg("send guess")
		}
	})
	rosterUI := newRosterPane()

	toolbar := newToolbar(a.Capture, func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			if err := export.PDF(wc, a.History.Snapshot()); err != nil {
				a.Log.Warn().Err(err).Msg("export pdf")
			}
		}, win)
	})

	// Engine callbacks arrive on the session goroutine; hop onto the
	// fyne one before touching widgets.
	a.Engine.OnRefresh = func() {
		fyne.Do(view.repaint)
	}
	a.Engine.OnRoster = func(players []wire.Player, guessed map[string]bool) {
		fyne.Do(func() { rosterUI.update(players, guessed) })
	}
	a.Engine.OnChat = func(m chat.Message) {
		fyne.Do(func() { chatUI.add(m) })
	}
	a.Engine.OnHost = func(isHost bool) {
		fyne.Do(func() {
			if isHost {
				status.SetText("You are drawing!")
			} else {
				status.SetText("Guess what the host is drawing")
			}
		})
	}
	a.Session.OnClose = func() {
		a.Engine.Close()
		fyne.Do(func() { status.SetText("Disconnected, restart to rejoin") })
	}

	go a.Session.Run(a.Engine)

	side := container.NewBorder(widget.NewLabel("Players"), nil, nil, nil,
		container.NewVSplit(rosterUI.root, chatUI.root))
	center := container.NewBorder(toolbar, status, nil, side, view)

	win.SetContent(center)
	win.SetOnClosed(a.Session.Close)
	win.ShowAndRun()
}
