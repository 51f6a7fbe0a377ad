// Package room is the realtime transport boundary: a WebSocket client
// for the room relay that delivers raw chat payloads in and broadcasts
// raw payloads out. Payload contents are opaque here; the router owns
// the chat message format.
package room

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sandevgo/roombot/internal/config"
	"github.com/sandevgo/roombot/internal/core"
	"github.com/sandevgo/roombot/pkg/log"
)

// Relay events. Data frames carry chat payloads; the rest are presence
// notifications.
const (
	eventData              = "data"
	eventParticipantJoined = "participant_joined"
	eventParticipantLeft   = "participant_left"
)

type envelope struct {
	Event    string          `json:"event"`
	Identity string          `json:"identity,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Reliable bool            `json:"reliable,omitempty"`
}

// Channel is a core.Channel over one WebSocket connection. Writes are
// serialized; gorilla allows one concurrent writer only.
type Channel struct {
	cfg      *config.RoomConfig
	identity string

	writeMu sync.Mutex
	conn    *websocket.Conn
}

func NewChannel(cfg *config.RoomConfig, identity string) *Channel {
	return &Channel{
		cfg:      cfg,
		identity: identity,
	}
}

// Connect dials the relay and starts the read loop. Events are handed
// to h on the read goroutine; h must dispatch its own slow work.
func (c *Channel) Connect(ctx context.Context, h core.Handler) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("X-Api-Key", c.cfg.APIKey)
	header.Set("X-Api-Secret", c.cfg.APISecret)
	header.Set("User-Agent", core.BotUserAgent)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to dial room relay (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("failed to dial room relay: %w", err)
	}

	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()

	go c.readLoop(ctx, conn, h)
	return nil
}

// Broadcast sends one data frame to the room.
func (c *Channel) Broadcast(ctx context.Context, payload []byte, reliable bool) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("cannot broadcast: room not connected")
	}

	env := envelope{
		Event:    eventData,
		Identity: c.identity,
		Payload:  payload,
		Reliable: reliable,
	}
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to write to room relay: %w", err)
	}
	return nil
}

func (c *Channel) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn, h core.Handler) {
	logger := log.FromCtx(ctx)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error().Err(err).Msg("room read failed")
			}
			return
		}

		env, err := parseEnvelope(data)
		if err != nil {
			logger.Error().Err(err).Msg("failed to decode relay frame")
			continue
		}

		switch env.Event {
		case eventData:
			h.HandleData(ctx, env.Payload, env.Identity)
		case eventParticipantJoined:
			h.HandleParticipantJoined(ctx, env.Identity)
		case eventParticipantLeft:
			h.HandleParticipantLeft(ctx, env.Identity)
		default:
			logger.Debug().Str("event", env.Event).Msg("ignoring unknown relay event")
		}
	}
}

// endpoint builds the relay URL, accepting http(s) or ws(s) schemes in
// the configured base.
func (c *Channel) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid room url %q: %w", c.cfg.URL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported room url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/rooms/" + url.PathEscape(c.cfg.RoomName) + "/ws"
	q := u.Query()
	q.Set("identity", c.identity)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("invalid relay frame: %w", err)
	}
	if env.Event == "" {
		return envelope{}, fmt.Errorf("relay frame missing event")
	}
	return env, nil
}
