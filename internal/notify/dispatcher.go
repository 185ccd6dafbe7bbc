package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Relay fans events out to every instance of the service.
// *redis.Client satisfies it.
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, handle func(payload []byte)) error
}

// envelope relay wire format
type envelope struct {
	UserID string `json:"user_id"`
	Event  Event  `json:"event"`
}

// Dispatcher pushes events to a user's live connection.
//
// Delivery is fire-and-forget: an event for a user without a connection is
// dropped, and push failures are logged and swallowed. Publish never returns
// an error so it cannot fail the operation that triggered it.
type Dispatcher struct {
	registry *Registry
	relay    Relay
	channel  string
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher delivering through the local registry only
func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// WithRelay routes every publish through relay on channel; each instance
// running Run delivers to its own registry.
func (d *Dispatcher) WithRelay(relay Relay, channel string) *Dispatcher {
	d.relay = relay
	d.channel = channel
	return d
}

// Publish sends ev to userID
func (d *Dispatcher) Publish(ctx context.Context, userID string, ev Event) {
	if d.relay == nil {
		d.deliver(userID, ev)
		return
	}

	payload, err := json.Marshal(envelope{UserID: userID, Event: ev})
	if err != nil {
		d.logger.Warn("encode relayed event failed", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	if err := d.relay.Publish(ctx, d.channel, payload); err != nil {
		// relay down: this instance may still hold the connection
		d.logger.Warn("relay publish failed, delivering locally",
			zap.String("user_id", userID), zap.String("type", ev.Type), zap.Error(err))
		d.deliver(userID, ev)
	}
}

// Run consumes the relay channel until ctx is done. Without a relay it returns immediately.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.relay == nil {
		return nil
	}
	return d.relay.Subscribe(ctx, d.channel, func(payload []byte) {
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			d.logger.Warn("discarding malformed relayed event", zap.Error(err))
			return
		}
		d.deliver(env.UserID, env.Event)
	})
}

func (d *Dispatcher) deliver(userID string, ev Event) {
	conn, ok := d.registry.ConnectionFor(userID)
	if !ok {
		d.logger.Debug("no live connection, event dropped",
			zap.String("user_id", userID), zap.String("type", ev.Type))
		return
	}
	if err := conn.Send(ev); err != nil {
		d.logger.Warn("push failed, event dropped",
			zap.String("user_id", userID), zap.String("type", ev.Type), zap.Error(err))
	}
}
