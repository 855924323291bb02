package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type redisPubSub interface {
	Publish(ctx context.Context, channel string, payload any) error
	Subscribe(ctx context.Context, channels ...string) (*goredis.PubSub, error)
}

// Bridge replicates hub events across instances through a redis pub/sub
// channel. Local deliveries happen immediately; the published copy is picked
// up by the other instances' subscriber loops.
type Bridge struct {
	hub      *Hub
	client   redisPubSub
	channel  string
	originID string
	logg     *logger.Logger
}

type bridgeEnvelope struct {
	Origin     string     `json:"origin"`
	TargetUser *uuid.UUID `json:"targetUser,omitempty"`
	Admins     bool       `json:"admins,omitempty"`
	Event      Event      `json:"event"`
}

// NewBridge wires a hub to a redis channel.
func NewBridge(hub *Hub, client redisPubSub, channel string, logg *logger.Logger) (*Bridge, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel name required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Bridge{
		hub:      hub,
		client:   client,
		channel:  channel,
		originID: uuid.NewString(),
		logg:     logg,
	}, nil
}

// NotifyUser delivers locally and replicates to the other instances.
func (b *Bridge) NotifyUser(ctx context.Context, userID uuid.UUID, event Event) {
	b.hub.NotifyUser(ctx, userID, event)
	b.publish(ctx, bridgeEnvelope{Origin: b.originID, TargetUser: &userID, Event: event})
}

// BroadcastToAdmins delivers locally and replicates to the other instances.
func (b *Bridge) BroadcastToAdmins(ctx context.Context, event Event) {
	b.hub.BroadcastToAdmins(ctx, event)
	b.publish(ctx, bridgeEnvelope{Origin: b.originID, Admins: true, Event: event})
}

// Run consumes replicated events until the context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(ctx, msg.Payload)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, payload string) {
	var envelope bridgeEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		b.logg.Error(ctx, "bridge payload decode failed", err)
		return
	}
	// our own publish already delivered locally
	if envelope.Origin == b.originID {
		return
	}
	if envelope.Admins {
		b.hub.BroadcastToAdmins(ctx, envelope.Event)
	}
	if envelope.TargetUser != nil {
		b.hub.NotifyUser(ctx, *envelope.TargetUser, envelope.Event)
	}
}

func (b *Bridge) publish(ctx context.Context, envelope bridgeEnvelope) {
	raw, err := json.Marshal(envelope)
	if err != nil {
		b.logg.Error(ctx, "bridge payload encode failed", err)
		return
	}
	if err := b.client.Publish(ctx, b.channel, string(raw)); err != nil {
		b.logg.Error(ctx, "bridge publish failed", err)
	}
}
