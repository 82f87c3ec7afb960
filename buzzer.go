// Buzzer
//
// Players join from their phones and race to hit the buzzer first. One
// moderator connection (?mod=true) sets the round length, awards points and
// decides when players get to see the scores.
//
// Features:
// - Single shared session over one WebSocket endpoint: $prefix/ws
// - First buzz starts the round and wins it; later buzzes are told they lost
// - Round resets itself after a configurable number of seconds
// - Moderator can reset a round early
// - Scoreboard ranks buzz times relative to the fastest player
// - Points are hidden from players until the moderator shows them
// - Slow or flooding connections are dropped or throttled
// - Finished rounds optionally published to NATS
// - In-browser QR code for the join URL, backed by go-qrcode

package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/duplinskyp/buzzerAPP/game"
)

const (
	sendBuffer     = 32
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
	qrSize         = 320
)

type Client struct {
	id      string
	role    game.Role
	conn    *websocket.Conn
	send    chan game.Message
	metrics *Metrics

	mu     sync.Mutex
	closed bool

	// Fixed one-second window; zero limit means unlimited.
	limit       int
	windowStart time.Time
	windowCount int
}

func newClient(conn *websocket.Conn, role game.Role, limit int, metrics *Metrics) *Client {
	return &Client{
		id:      uuid.NewString(),
		role:    role,
		conn:    conn,
		send:    make(chan game.Message, sendBuffer),
		metrics: metrics,
		limit:   limit,
	}
}

// Send queues msg without blocking. It reports false once the buffer is
// full or the client is closed.
func (c *Client) Send(msg game.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		c.metrics.slowClient()
		return false
	}
}

// Close stops the write pump, which then closes the socket. Safe to call
// more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) allow(now time.Time) bool {
	if c.limit <= 0 {
		return true
	}

	if now.Sub(c.windowStart) >= time.Second {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++

	return c.windowCount <= c.limit
}

type inboundMessage struct {
	client *Client
	msg    ClientMessage
}

// Hub owns the game session. Everything that touches it, including the
// round timer, goes through run.
type Hub struct {
	session   *game.Session
	metrics   *Metrics
	publisher *roundPublisher

	register chan *Client
	unreg    chan *Client
	inbound  chan inboundMessage
	done     chan struct{}
}

func newHub(cfg *Config, clock clockwork.Clock, metrics *Metrics, publisher *roundPublisher) *Hub {
	h := &Hub{
		metrics:   metrics,
		publisher: publisher,
		register:  make(chan *Client),
		unreg:     make(chan *Client),
		inbound:   make(chan inboundMessage),
		done:      make(chan struct{}),
	}

	h.session = game.NewSession(game.Options{
		Clock:         clock,
		ResetTime:     cfg.resetTime,
		DefaultName:   cfg.defaultName,
		MaxNameLength: cfg.maxNameLength,
		Recorder:      h,
	})

	return h
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	defer h.session.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.session.Connect(c.id, c.role, c)

			log.Debug().
				Str("client", c.id).
				Str("role", string(c.role)).
				Int("participants", h.session.Participants()).
				Msg("GAMES: Client joined")

		case c := <-h.unreg:
			h.session.Disconnect(c.id)
			c.Close()

			log.Debug().
				Str("client", c.id).
				Int("participants", h.session.Participants()).
				Msg("GAMES: Client left")

		case in := <-h.inbound:
			h.handle(in)

		case <-h.session.TimerC():
			h.session.Expire()
		}
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.done:
	}
}

func (h *Hub) deliver(in inboundMessage) bool {
	select {
	case h.inbound <- in:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handle(in inboundMessage) {
	c := in.client
	payload := in.msg.Payload

	var err error

	switch in.msg.Type {
	case game.EventSetName:
		err = h.session.SetName(c.id, parseName(payload))
	case game.EventBuzz:
		wasActive := h.session.RoundActive()
		err = h.session.Buzz(c.id)
		if err == nil {
			h.metrics.buzzed()
		}
		if !wasActive && h.session.RoundActive() {
			h.metrics.roundStarted()
		}
	case game.EventSetResetTime:
		err = h.session.SetResetTime(c.id, parseResetTime(payload))
	case game.EventSetPoints:
		teamName, points, ok := parsePoints(payload)
		if !ok {
			h.metrics.dropped()
			return
		}
		err = h.session.SetPoints(c.id, teamName, points)
	case game.EventToggleShowPoints:
		err = h.session.ToggleShowPoints(c.id)
	case game.EventResetRound:
		err = h.session.ResetRound(c.id)
	default:
		h.metrics.dropped()
		return
	}

	if err != nil {
		log.Debug().
			Err(err).
			Str("client", c.id).
			Str("type", in.msg.Type).
			Msg("GAMES: Ignored event")
	}
}

// RecordRound is called by the session from inside run.
func (h *Hub) RecordRound(summary game.RoundSummary) {
	h.metrics.roundFinished()

	log.Info().
		Str("winner", summary.Winner).
		Int("participants", len(summary.Scoreboard)).
		Dur("duration", summary.EndedAt.Sub(summary.StartedAt)).
		Msg("GAMES: Round finished")

	if err := h.publisher.publish(summary); err != nil {
		log.Error().Err(err).Msg("NATS: Round not published")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func isModerator(r *http.Request) bool {
	return r.URL.Query().Get("mod") == "true"
}

func serveWS(cfg *Config, hub *Hub, metrics *Metrics) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Str("remote", realIP(r)).Msg("SERVE: WebSocket upgrade failed")
			return
		}

		role := game.RolePlayer
		if isModerator(r) {
			role = game.RoleModerator
		}

		client := newClient(conn, role, cfg.rateLimit, metrics)

		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		metrics.connected()
		defer metrics.disconnected()

		log.Info().
			Str("client", client.id).
			Str("role", string(role)).
			Str("remote", realIP(r)).
			Msg("SERVE: WebSocket connected")

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("client", c.id).Msg("SERVE: WebSocket read failed")
			}
			return
		}

		if !c.allow(time.Now()) {
			c.metrics.rateLimited()
			continue
		}
		c.metrics.received()

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.metrics.dropped()
			continue
		}

		if !h.deliver(inboundMessage{client: c, msg: msg}) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// qrHandler renders the player join URL as a PNG.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr") + "/"

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

//go:embed assets/buzzer/index.html
var indexHTML []byte

func serveIndex(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		if _, err := w.Write(indexHTML); err != nil {
			errs <- err
		}
	}
}

func registerBuzzer(cfg *Config, hub *Hub, metrics *Metrics, errs chan<- error, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/", serveIndex(cfg, errs))
	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))
	mux.GET(cfg.prefix+"/ws", serveWS(cfg, hub, metrics))
	mux.GET(cfg.prefix+"/qr", qrHandler(cfg, errs))
}
