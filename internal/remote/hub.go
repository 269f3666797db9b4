package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

const (
	clientBuffer   = 32
	requestTimeout = 5 * time.Second
)

// Request is a client action waiting for the application loop.
type Request struct {
	Type    string
	Client  string
	Section string
	Label   string
	Value   string
	Node    string

	reply chan error
}

// Reply completes the request. It never blocks and only the first reply
// counts.
func (r Request) Reply(err error) {
	if r.reply == nil {
		return
	}
	select {
	case r.reply <- err:
	default:
	}
}

type client struct {
	id   string
	send chan ServerMessage
	kick chan struct{}
	once sync.Once
}

func (c *client) drop() {
	c.once.Do(func() { close(c.kick) })
}

// Hub fans inspector state out to websocket clients and collects their
// requests.
type Hub struct {
	logger   *slog.Logger
	requests chan Request

	mu      sync.Mutex
	clients map[*client]struct{}
	state   StateData
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		logger:   logger,
		requests: make(chan Request, 64),
		clients:  make(map[*client]struct{}),
		state:    StateData{Sections: []SectionData{}},
	}
}

// Requests delivers client requests to the application loop.
func (h *Hub) Requests() <-chan Request { return h.requests }

// State returns the last published state.
func (h *Hub) State() StateData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish records state and sends it to every client.
func (h *Hub) Publish(state StateData) {
	if state.Sections == nil {
		state.Sections = []SectionData{}
	}
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
	h.broadcast(ServerMessage{Type: TypeState, Data: state})
}

// Announce sends an encoded command to every client.
func (h *Hub) Announce(encoded []byte) {
	h.broadcast(ServerMessage{Type: TypeCommand, Data: json.RawMessage(encoded)})
}

func (h *Hub) broadcast(msg ServerMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow remote client", "client", c.id)
			c.drop()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.drop()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	c.send <- ServerMessage{Type: TypeState, Data: h.state}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// ServeHTTP upgrades to a websocket and runs the message loop.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		h.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	c := &client{
		id:   uuid.NewString(),
		send: make(chan ServerMessage, clientBuffer),
		kick: make(chan struct{}),
	}
	h.register(c)
	defer h.unregister(c)
	h.logger.Info("remote client connected", "client", c.id, "remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.writeLoop(ctx, cancel, conn, c)

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				h.logger.Info("remote client closed", "client", c.id, "status", status)
			} else if !errors.Is(err, context.Canceled) {
				h.logger.Debug("remote read", "client", c.id, "error", err)
			}
			return
		}
		h.handle(ctx, c, msg)
	}
}

func (h *Hub) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.kick:
			_ = conn.Close(websocket.StatusGoingAway, "disconnected by server")
			return
		case msg := <-c.send:
			wctx, wcancel := context.WithTimeout(ctx, requestTimeout)
			err := wsjson.Write(wctx, conn, msg)
			wcancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *Hub) handle(ctx context.Context, c *client, msg ClientMessage) {
	req := Request{Type: msg.Type, Client: c.id}
	switch msg.Type {
	case TypePing:
		h.reply(c, ServerMessage{Type: TypePong, RequestID: msg.ID})
		return
	case TypeEdit:
		var data EditData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Label == "" {
			h.replyError(c, msg.ID, "invalid_data", "edit needs a label and a value")
			return
		}
		req.Section, req.Label, req.Value = data.Section, data.Label, data.Value
	case TypeSelect:
		var data SelectData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Node == "" {
			h.replyError(c, msg.ID, "invalid_data", "select needs a node")
			return
		}
		req.Node = data.Node
	case TypeUndo, TypeRedo:
	default:
		h.replyError(c, msg.ID, "unknown_type", "unknown message type: "+msg.Type)
		return
	}

	if err := h.submit(ctx, req); err != nil {
		h.replyError(c, msg.ID, "rejected", err.Error())
		return
	}
	h.reply(c, ServerMessage{Type: TypeAck, RequestID: msg.ID})
}

// submit hands req to the application loop and waits for its reply.
func (h *Hub) submit(ctx context.Context, req Request) error {
	req.reply = make(chan error, 1)
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	select {
	case h.requests <- req:
	case <-ctx.Done():
		return ErrBusy
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ErrBusy
	}
}

func (h *Hub) reply(c *client, msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		c.drop()
	}
}

func (h *Hub) replyError(c *client, id, code, message string) {
	h.reply(c, ServerMessage{Type: TypeError, RequestID: id, Data: ErrorData{Code: code, Message: message}})
}
