// Package session owns the single connection a client keeps per
// room+identity, plus room bootstrap, guest identity and LAN
// discovery.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"doodlz/internal/wire"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 54 * time.Second
)

// Handler consumes inbound envelopes in the order the transport
// delivers them.
type Handler interface {
	HandleMessage(wire.Envelope)
}

// Session is one live room connection. Writes may come from any
// goroutine; reads happen on the goroutine running Run.
type Session struct {
	conn    *websocket.Conn
	log     zerolog.Logger
	writeMu sync.Mutex
	once    sync.Once

	// OnClose runs exactly once when the connection goes away, before
	// Run returns. Set it before calling Run.
	OnClose func()
}

// Dial connects to /ws/{roomId}/{identity} on the given server. The
// server URL may be http(s) or ws(s).
func Dial(ctx context.Context, server, roomID, identity string, log zerolog.Logger) (*Session, error) {
	u, err := wsURL(server, roomID, identity)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	log.Info().Str("room", roomID).Str("identity", identity).Msg("connected")
	return &Session{conn: conn, log: log}, nil
}

// Send marshals an envelope onto the connection.
func (s *Session) Send(env wire.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Run reads envelopes until the connection dies and hands each one to
// h. It blocks; run it on its own goroutine. There is no reconnect
// policy here: a lost connection surfaces as a stalled session until
// the caller dials again and a fresh game_state arrives.
func (s *Session) Run(h Handler) {
	defer s.Close()

	stopPing := make(chan struct{})
	defer close(stopPing)
	go s.pingLoop(stopPing)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("read")
			}
			return
		}
		var env wire.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.log.Debug().Err(err).Msg("invalid envelope")
			continue
		}
		h.HandleMessage(env)
	}
}

// Close tears the connection down; safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.conn.Close()
		if s.OnClose != nil {
			s.OnClose()
		}
	})
}

func (s *Session) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func wsURL(server, roomID, identity string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + roomID + "/" + identity
	return u.String(), nil
}
