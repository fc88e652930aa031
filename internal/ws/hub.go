package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/observability"
	"go.uber.org/zap"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	controlWriteTimeout      = 5 * time.Second
)

// BatchActioner performs a batch lifecycle action on behalf of a
// realtime client. The hub receives this capability at wiring time so
// the lifecycle service never has to know about the hub.
type BatchActioner interface {
	PerformAction(ctx context.Context, batchID string, action domain.BatchAction) error
}

// Hub owns the set of live realtime connections and fans out
// audience-filtered event messages to them.
type Hub struct {
	logger            *zap.Logger
	metrics           *observability.Metrics
	heartbeatInterval time.Duration
	now               func() time.Time

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	actioner BatchActioner
}

func NewHub(heartbeatInterval time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if heartbeatInterval <= 0 {
		heartbeatInterval = defaultHeartbeatInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hub{
		logger:            logger,
		metrics:           metrics,
		heartbeatInterval: heartbeatInterval,
		now:               time.Now,
		clients:           make(map[*Client]struct{}),
	}
}

// BindActioner injects the batch-action capability. Must be called
// before the first connection is served.
func (h *Hub) BindActioner(a BatchActioner) {
	h.mu.Lock()
	h.actioner = a
	h.mu.Unlock()
}

// Run executes the liveness sweep until context cancellation. Each
// sweep terminates connections that missed the previous heartbeat,
// then probes the survivors.
func (h *Hub) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers the message to every live connection the audience
// includes. Delivery is fire-and-forget per connection: a slow client
// is shed rather than allowed to stall the rest.
func (h *Hub) Broadcast(msg Message, audience Audience) {
	payload, err := h.encode(msg)
	if err != nil {
		h.logger.Error("failed to encode broadcast", zap.String("event", msg.Type), zap.Error(err))
		return
	}
	h.metrics.IncBroadcast(msg.Type)

	var overflowed []*Client
	h.mu.RLock()
	for c := range h.clients {
		if !audience.Includes(c.userID, c.role) {
			continue
		}
		if !c.enqueue(payload) {
			overflowed = append(overflowed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range overflowed {
		h.logger.Warn("dropping slow realtime client",
			zap.String("userId", c.userID),
			zap.String("event", msg.Type),
		)
		h.drop(c)
	}
}

func (h *Hub) BroadcastToBatchOperators(msg Message) {
	h.Broadcast(msg, AudienceBatchOperators)
}

func (h *Hub) BroadcastToDirectors(msg Message) {
	h.Broadcast(msg, AudienceDirectors)
}

// serve runs the read loop for one authenticated connection. It returns
// when the client disconnects or errors; the connection is removed from
// the live set before returning.
func (h *Hub) serve(ctx context.Context, conn Conn, userID string, role domain.Role) {
	c := newClient(conn, userID, role)

	conn.SetPongHandler(func(string) error {
		h.markAlive(c)
		return nil
	})

	h.register(c)
	defer h.drop(c)

	go c.writeLoop(h)

	h.sendTo(c, Message{
		Type: EventConnectionEstablished,
		Data: map[string]any{
			"message": "connected to SGMI realtime server",
			"userId":  userID,
			"role":    role.String(),
		},
	})

	h.logger.Info("realtime client connected",
		zap.String("userId", userID),
		zap.String("role", role.String()),
		zap.Int("clients", h.ClientCount()),
	)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("realtime client read error", zap.String("userId", userID), zap.Error(err))
			}
			return
		}
		h.handleInbound(ctx, c, payload)
	}
}

// handleInbound dispatches one client message. Unknown types are logged
// and ignored; they never cause disconnection.
func (h *Hub) handleInbound(ctx context.Context, c *Client, payload []byte) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.sendTo(c, Message{Type: EventError, Data: map[string]any{"message": "malformed message"}})
		return
	}

	switch msg.Type {
	case TypePing:
		h.sendTo(c, Message{Type: EventPong})

	case TypeSubscribeBatchUpdate:
		// Acknowledged implicitly; batch updates are already pushed to
		// the operator audience.

	case TypeBatchAction:
		h.handleBatchAction(ctx, c, msg.Data)

	default:
		h.logger.Debug("unknown realtime message type", zap.String("type", msg.Type))
	}
}

func (h *Hub) handleBatchAction(ctx context.Context, c *Client, data any) {
	h.mu.RLock()
	actioner := h.actioner
	h.mu.RUnlock()
	if actioner == nil {
		h.sendTo(c, Message{Type: EventBatchActionError, Data: map[string]any{"message": "batch actions unavailable"}})
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		h.sendTo(c, Message{Type: EventBatchActionError, Data: map[string]any{"message": "malformed batch action"}})
		return
	}
	var req batchActionData
	if err := json.Unmarshal(raw, &req); err != nil || req.BatchID == "" {
		h.sendTo(c, Message{Type: EventBatchActionError, Data: map[string]any{"message": "malformed batch action"}})
		return
	}

	action, err := domain.ParseBatchActionFromString(req.Action.Action)
	if err != nil {
		h.sendTo(c, Message{Type: EventBatchActionError, Data: map[string]any{
			"batchId": req.BatchID,
			"message": err.Error(),
		}})
		return
	}

	if err := actioner.PerformAction(ctx, req.BatchID, action); err != nil {
		// Errors go back to the originating connection only; the
		// lifecycle engine broadcasts successful transitions itself.
		h.sendTo(c, Message{Type: EventBatchActionError, Data: map[string]any{
			"batchId": req.BatchID,
			"action":  action.String(),
			"message": err.Error(),
		}})
		return
	}

	h.sendTo(c, Message{Type: EventBatchActionSuccess, Data: map[string]any{
		"batchId": req.BatchID,
		"action":  action.String(),
	}})
}

// sendTo delivers a message to a single connection. The membership
// check under the lock keeps the enqueue from racing a concurrent drop.
func (h *Hub) sendTo(c *Client, msg Message) {
	payload, err := h.encode(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.String("event", msg.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	_, live := h.clients[c]
	delivered := live && c.enqueue(payload)
	h.mu.RUnlock()

	if live && !delivered {
		h.drop(c)
	}
}

func (h *Hub) encode(msg Message) ([]byte, error) {
	if msg.Timestamp == nil {
		now := h.now().UTC()
		msg.Timestamp = &now
	}
	return json.Marshal(msg)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetConnectedClients(count)
}

// drop removes a connection from the live set and closes it. Safe to
// call multiple times for the same client.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	_ = c.conn.Close()
	h.metrics.SetConnectedClients(count)
}

func (h *Hub) markAlive(c *Client) {
	h.mu.Lock()
	c.alive = true
	h.mu.Unlock()
}

// sweep terminates connections that never acknowledged the previous
// heartbeat and probes every survivor. A connection survives at most
// two intervals after going dead.
func (h *Hub) sweep() {
	h.mu.Lock()
	var dead, live []*Client
	for c := range h.clients {
		if !c.alive {
			dead = append(dead, c)
			continue
		}
		c.alive = false
		live = append(live, c)
	}
	h.mu.Unlock()

	for _, c := range dead {
		h.logger.Info("terminating unresponsive realtime client", zap.String("userId", c.userID))
		h.drop(c)
	}

	deadline := h.now().Add(controlWriteTimeout)
	for _, c := range live {
		if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			h.drop(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.drop(c)
	}
}
