// Package gateway is the WebSocket front door this repo supplements
// the tick engine with (spec §1 lists "the session gateway" among the
// external collaborators a complete implementation of spec §6's
// contract needs; this package is that collaborator, built in the
// teacher's idiom so the engine package itself stays free of any
// transport dependency).
package gateway

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/cellarena/server/internal/engine"
)

// MaxPlayers bounds simultaneous connections, mirroring
// sonpython-slether/server/config.go's MaxPlayers.
const MaxPlayers = 500

// connectionsPerSecond and connectionBurst bound how fast one source
// IP may open new connections. Grounded on
// sonpython-slether/server/main.go's ipRateLimiter (one connection per
// IPCooldownSec per IP), reimplemented against golang.org/x/time/rate
// since that library already expresses "N events per second with a
// burst allowance" directly instead of slether's hand-rolled
// last-seen-timestamp map.
const (
	connectionsPerSecond = 0.2
	connectionBurst      = 3
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// Gateway owns the HTTP/WebSocket listener and wires client sessions
// to an *engine.Engine. Grounded on
// sonpython-slether/server/main.go's bare http.HandleFunc closure,
// pulled out into a named type since this spec's join/disconnect
// bookkeeping (subscribe/unsubscribe via PubSub, JoinGame queuing) is
// more than a few lines of closure body.
type Gateway struct {
	engine     *engine.Engine
	logger     *log.Logger
	path       string
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
	newLimiter func() *rate.Limiter
	active     int32
}

// NewGateway creates a Gateway that forwards sessions to eng and logs
// with logger. path is the HTTP path the WebSocket endpoint is served
// on, e.g. "/ws".
func NewGateway(eng *engine.Engine, logger *log.Logger, path string) *Gateway {
	return &Gateway{
		engine:   eng,
		logger:   logger,
		path:     path,
		limiters: make(map[string]*rate.Limiter),
		newLimiter: func() *rate.Limiter {
			return rate.NewLimiter(rate.Limit(connectionsPerSecond), connectionBurst)
		},
	}
}

// Handler returns the http.Handler to mount at g.path.
func (g *Gateway) Handler() http.HandlerFunc {
	return g.serveWS
}

// serveWS upgrades every request to a WebSocket first, then rejects
// over that connection with an errorWire message rather than a bare
// HTTP status — mirroring sonpython-slether/server/main.go's
// sendErrorAndClose, which upgrades before checking MaxPlayers/the
// rate limiter so the client always gets a structured, parseable
// reason instead of an HTTP error page it may never see (browsers
// don't surface HTTP status text from a failed Upgrade the same way).
func (g *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("websocket upgrade failed", "err", err, "ip", ip)
		}
		return
	}
	ws.EnableWriteCompression(true)

	if !g.allow(ip) {
		sendErrorAndClose(ws, "too many connection attempts", g.logger)
		return
	}
	if atomic.LoadInt32(&g.active) >= MaxPlayers {
		sendErrorAndClose(ws, "server full", g.logger)
		return
	}

	atomic.AddInt32(&g.active, 1)
	defer atomic.AddInt32(&g.active, -1)

	sess := &session{
		id:     uuid.New(),
		ws:     ws,
		engine: g.engine,
		logger: g.logger,
	}
	sess.run()
}

// sendErrorAndClose writes an errorWire message, then closes ws (spec
// §7 "errors visible to a client are connection-ending").
func sendErrorAndClose(ws *websocket.Conn, msg string, logger *log.Logger) {
	data, err := json.Marshal(newErrorWire(msg))
	if err == nil {
		_ = ws.WriteMessage(websocket.TextMessage, data)
	} else if logger != nil {
		logger.Error("failed to marshal error wire message", "err", err)
	}
	ws.Close()
}

func (g *Gateway) allow(ip string) bool {
	g.limitersMu.Lock()
	defer g.limitersMu.Unlock()
	limiter, ok := g.limiters[ip]
	if !ok {
		limiter = g.newLimiter()
		g.limiters[ip] = limiter
	}
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// session is one connected player's read/write pump pair. Grounded on
// sonpython-slether/server/connection.go's Conn + ReadLoop, generalized
// from slether's single-string ID and bespoke PlayerInput snapshot to
// this spec's uuid.UUID player identity and engine.Ingestor-mediated
// input path (the session itself holds no simulation state).
type session struct {
	id     uuid.UUID
	ws     *websocket.Conn
	engine *engine.Engine
	logger *log.Logger
}

func (s *session) run() {
	outbound := s.engine.JoinGame(engine.JoinGameMsg{UUID: s.id})
	defer s.engine.Disconnect(s.id)

	done := make(chan struct{})
	go s.writePump(outbound, done)
	s.readPump()
	close(done)
	s.ws.Close()
}

// readPump blocks decoding inbound frames until the client disconnects
// or sends an unreadable frame (spec §6/§7: malformed frames are
// logged and the frame is dropped, not fatal to the session — except
// for i/o errors, which end it).
func (s *session) readPump() {
	for {
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if s.logger != nil {
					s.logger.Warn("websocket read error", "uuid", s.id, "err", err)
				}
			}
			return
		}

		var env inboundEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			if s.logger != nil {
				s.logger.Warn("malformed inbound message, dropping", "uuid", s.id, "err", err)
			}
			continue
		}

		switch env.Method {
		case methodJoinGame:
			username := env.Data.Username
			if username == "" {
				username = "player"
			}
			s.engine.Ingestor.Join(engine.JoinGameMsg{UUID: s.id, Username: username})
		case methodUpdatePosition:
			s.engine.Ingestor.UpdatePosition(engine.UpdatePositionMsg{UUID: s.id, X: env.Data.X, Y: env.Data.Y})
		default:
			if s.logger != nil {
				s.logger.Warn("unknown inbound method, dropping", "uuid", s.id, "method", env.Method)
			}
		}
	}
}

// writeLoopPingInterval keeps idle WebSocket connections alive through
// intermediary proxies between tick_update broadcasts.
const writeLoopPingInterval = 20 * time.Second

// writePump drains outbound and writes each message to the socket
// until done closes (the session's read side returned).
func (s *session) writePump(outbound <-chan engine.OutboundMessage, done <-chan struct{}) {
	ticker := time.NewTicker(writeLoopPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			data, err := json.Marshal(toWire(msg))
			if err != nil {
				if s.logger != nil {
					s.logger.Error("failed to marshal outbound message", "uuid", s.id, "err", err)
				}
				continue
			}
			if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
