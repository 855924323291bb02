package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/matrknhash/marketplace-backend/pkg/enums"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	"github.com/matrknhash/marketplace-backend/pkg/metrics"
)

// Channel is one subscriber's event stream. A user holds at most one channel
// at a time: registering again supersedes the previous connection.
type Channel struct {
	userID uuid.UUID
	role   enums.UserRole
	events chan Event
}

// UserID returns the owner of the channel.
func (c *Channel) UserID() uuid.UUID {
	return c.userID
}

// Events exposes the receive side of the stream.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Hub tracks connected subscribers and fans events out to them. Delivery is
// best-effort: a slow or absent subscriber never blocks the caller.
type Hub struct {
	mu      sync.Mutex
	byUser  map[uuid.UUID]*Channel
	admins  map[*Channel]struct{}
	buffer  int
	closed  bool
	metrics *metrics.MarketplaceMetrics
	logg    *logger.Logger
}

// NewHub builds a hub with the given per-subscriber buffer size.
func NewHub(buffer int, mets *metrics.MarketplaceMetrics, logg *logger.Logger) (*Hub, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		byUser:  make(map[uuid.UUID]*Channel),
		admins:  make(map[*Channel]struct{}),
		buffer:  buffer,
		metrics: mets,
		logg:    logg,
	}, nil
}

// Register attaches a subscriber for the given user. An existing channel for
// the same user is closed and replaced. Admin subscribers additionally join
// the broadcast set.
func (h *Hub) Register(userID uuid.UUID, role enums.UserRole) (*Channel, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, fmt.Errorf("hub closed")
	}

	if prev, ok := h.byUser[userID]; ok {
		delete(h.admins, prev)
		close(prev.events)
	}

	ch := &Channel{
		userID: userID,
		role:   role,
		events: make(chan Event, h.buffer),
	}
	h.byUser[userID] = ch
	if role == enums.UserRoleAdmin {
		h.admins[ch] = struct{}{}
	}
	return ch, nil
}

// Unregister detaches a subscriber and closes its stream. A channel that was
// already superseded is left alone.
func (h *Hub) Unregister(ch *Channel) {
	if ch == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	current, ok := h.byUser[ch.userID]
	if !ok || current != ch {
		return
	}
	delete(h.byUser, ch.userID)
	delete(h.admins, ch)
	close(ch.events)
}

// NotifyUser delivers an event to the user's channel if one is connected.
// Disconnected users and full buffers drop the event.
//
// Sends happen under the hub lock so a concurrent Unregister cannot close a
// channel mid-send.
func (h *Hub) NotifyUser(ctx context.Context, userID uuid.UUID, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.byUser[userID]
	if !ok {
		h.metrics.IncNotificationDropped()
		return
	}
	h.send(ctx, ch, event)
}

// BroadcastToAdmins delivers an event to every connected admin.
func (h *Hub) BroadcastToAdmins(ctx context.Context, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.admins {
		h.send(ctx, ch, event)
	}
}

// ConnectedUsers reports how many subscribers are currently attached.
func (h *Hub) ConnectedUsers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byUser)
}

// Close disconnects every subscriber. Register fails afterward.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for _, ch := range h.byUser {
		close(ch.events)
	}
	h.byUser = make(map[uuid.UUID]*Channel)
	h.admins = make(map[*Channel]struct{})
	return nil
}

func (h *Hub) send(ctx context.Context, ch *Channel, event Event) {
	select {
	case ch.events <- event:
		h.metrics.IncNotificationDelivered()
	default:
		h.metrics.IncNotificationDropped()
		h.logg.Warn(h.logg.WithUserID(ctx, ch.userID.String()), "subscriber buffer full, event dropped")
	}
}
