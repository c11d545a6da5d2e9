package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"caro-game/internal/audit"
	"caro-game/internal/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	// A 15x15 board of single digits fits comfortably.
	wsReadLimit = 8 << 10
	// Requests queued per connection while the engine is busy.
	wsPendingRequests = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes; the socket is stateless
	},
}

// WSRequest is a client frame on /ws/ai.
type WSRequest struct {
	Type string `json:"type"`
	MoveRequest
}

// WSReply is a server frame: a "move" carrying the MoveResponse fields, or
// an "error".
type WSReply struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	*MoveResponse
	Error string `json:"error,omitempty"`
}

// wsJob is either a request for the engine or a reply already decided by
// the reader.
type wsJob struct {
	request *MoveRequest
	reply   WSReply
}

type WebSocketHandler struct {
	ai      *AIHandler
	hub     *Hub
	limiter *middleware.RateLimiter
	limit   middleware.RateLimitConfig
}

// NewWebSocketHandler serves move requests over WebSocket. Each request
// counts against limit for the client's IP, like the HTTP endpoint.
func NewWebSocketHandler(ai *AIHandler, limiter *middleware.RateLimiter, limit middleware.RateLimitConfig) *WebSocketHandler {
	return &WebSocketHandler{ai: ai, hub: NewHub(), limiter: limiter, limit: limit}
}

// Hub tracks open connections so they can be closed on shutdown.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	ip   string
	jobs chan wsJob
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Debug().Str("ip", c.ip).Msg("websocket client registered")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	log.Debug().Str("ip", c.ip).Msg("websocket client unregistered")
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll sends a going-away close frame to every client and drops the
// connections.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for c := range h.clients {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
		c.conn.Close()
	}
}

func (h *WebSocketHandler) Hub() *Hub {
	return h.hub
}

// readPump decodes frames and queues move requests for the worker.
// It owns c.jobs and closes it when the connection ends.
func (h *WebSocketHandler) readPump(c *Client) {
	defer func() {
		close(c.jobs)
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(wsReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("ip", c.ip).Msg("websocket error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var msg WSRequest
		if err := json.Unmarshal(data, &msg); err != nil {
			c.jobs <- errorJob("", "invalid message: "+err.Error())
			continue
		}
		if msg.Type != "move_request" {
			c.jobs <- errorJob(msg.RequestID, "unknown message type "+msg.Type)
			continue
		}
		if allowed, _, _ := h.limiter.Allow(c.ip, h.limit); !allowed {
			c.jobs <- errorJob(msg.RequestID, "Rate limit exceeded")
			continue
		}
		if msg.RequestID == "" {
			msg.RequestID = uuid.NewString()
		}
		c.jobs <- wsJob{request: &msg.MoveRequest}
	}
}

// worker answers queued requests one at a time. It owns c.send.
func (h *WebSocketHandler) worker(c *Client) {
	defer close(c.send)

	for job := range c.jobs {
		reply := job.reply
		if job.request != nil {
			resp, err := h.ai.decide(*job.request, audit.TransportWebSocket)
			if err != nil {
				reply = WSReply{Type: "error", RequestID: job.request.RequestID, Error: err.Error()}
			} else {
				reply = WSReply{Type: "move", RequestID: resp.RequestID, MoveResponse: &resp}
			}
		}

		data, err := json.Marshal(reply)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal websocket reply")
			continue
		}
		c.send <- data
	}
}

func errorJob(requestID, message string) wsJob {
	return wsJob{reply: WSReply{Type: "error", RequestID: requestID, Error: message}}
}

// drain closes the connection, which ends readPump and then the worker,
// and discards replies until the worker closes c.send.
func (c *Client) drain() {
	c.conn.Close()
	for range c.send {
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.drain()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.drain()
				return
			}
		}
	}
}

// HandleWebSocket handles GET /ws/ai.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		ip:   middleware.GetClientIP(r),
		jobs: make(chan wsJob, wsPendingRequests),
		send: make(chan []byte, wsPendingRequests),
	}
	h.hub.register(client)

	go client.writePump()
	go h.worker(client)
	go h.readPump(client)
}
