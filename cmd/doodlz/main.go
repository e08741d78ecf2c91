package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"doodlz/internal/board"
	"doodlz/internal/capture"
	"doodlz/internal/config"
	"doodlz/internal/engine"
	"doodlz/internal/session"
	"doodlz/internal/ui"
)

const (
	canvasWidth  = 1024
	canvasHeight = 640
)

// serverPort extracts the port from the server base URL, defaulting by
// scheme when none is given.
func serverPort(server string) int {
	u, err := url.Parse(server)
	if err != nil {
		return 80
	}
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	if u.Scheme == "https" || u.Scheme == "wss" {
		return 443
	}
	return 80
}

func main() {
	cfg := config.Load()

	server := flag.String("server", cfg.Server, "room server base URL")
	roomID := flag.String("room", "", "room to join")
	create := flag.Bool("create", false, "create a new room and host it")
	discover := flag.Bool("discover", false, "browse the LAN for Doodlz servers and exit")
	debug := flag.Bool("debug", cfg.Debug, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *discover {
		if err := session.Discover(func(addr string) {
			fmt.Println(addr)
		}); err != nil {
			log.Fatal().Err(err).Msg("discovery failed")
		}
		return
	}

	identity, err := session.LoadIdentity()
	if err != nil {
		log.Fatal().Err(err).Msg("load guest identity")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *create {
		id, err := session.CreateRoom(ctx, *server, identity)
		if err != nil {
			log.Fatal().Err(err).Msg("create room")
		}
		*roomID = id
		log.Info().Str("room", id).Str("link", session.RoomLink(*server, id)).Msg("room created")
		if ip, err := session.OutgoingIP(); err == nil {
			log.Info().Str("lan", ip).Msg("share on your network")
		}
		// Announce the server on the LAN while we host, so peers can
		// find it with -discover instead of typing an address.
		if ad, err := session.Advertise(serverPort(*server)); err == nil {
			defer ad.Shutdown()
		} else {
			log.Debug().Err(err).Msg("mdns advertise")
		}
	}
	if *roomID == "" {
		fmt.Fprintln(os.Stderr, "usage: doodlz -room <id> | doodlz -create")
		os.Exit(2)
	}

	sess, err := session.Dial(ctx, *server, *roomID, identity, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}

	canvas := board.NewCanvas(canvasWidth, canvasHeight)
	history := board.NewHistory()
	eng := engine.New(identity, canvas, history, engine.TimerScheduler{}, log)
	cap := capture.New(canvas, history, sess, eng.IsHost, log)

	ui.Run(ui.App{
		Session: sess,
		Engine:  eng,
		Capture: cap,
		Canvas:  canvas,
		History: history,
		RoomID:  *roomID,
		Log:     log,
	})
}
