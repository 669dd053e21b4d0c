package mykafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/Skotchmaster/green_homes/internal/cart"
)

const DefaultCartTopic = "cart_events"

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

var eventTypes = map[cart.ActionType]string{
	cart.ActionAdd:            "cart_item_added",
	cart.ActionRemove:         "cart_item_removed",
	cart.ActionUpdateQuantity: "cart_quantity_updated",
	cart.ActionClear:          "cart_cleared",
}

// CartEvent builds the payload published for a transition. Loads are not
// published; ok is false for them.
func CartEvent(sessionID string, ev cart.Event) (map[string]any, bool) {
	typ, ok := eventTypes[ev.Action.Type]
	if !ok {
		return nil, false
	}
	event := map[string]any{
		"type":      typ,
		"sessionID": sessionID,
		"itemCount": ev.Cart.ItemCount,
		"total":     ev.Cart.Total,
	}
	if ev.Action.PlantID != "" {
		event["plantID"] = ev.Action.PlantID
	}
	switch ev.Action.Type {
	case cart.ActionAdd:
		event["quantity"] = ev.Action.Quantity
		event["size"] = ev.Action.Options.Size
		event["potOption"] = ev.Action.Options.PotOption
	case cart.ActionUpdateQuantity:
		event["quantity"] = ev.Action.Quantity
	}
	return event, true
}

// CartPublisher forwards cart transitions to Kafka.
type CartPublisher struct {
	Producer Publisher
	Topic    string
	Log      *slog.Logger
}

// Attach subscribes to s. It has the signature session.OnOpen expects.
func (p *CartPublisher) Attach(sessionID string, s *cart.Store) {
	s.Subscribe(func(ev cart.Event) {
		event, ok := CartEvent(sessionID, ev)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Producer.PublishEvent(ctx, p.topic(), sessionID, event); err != nil {
			p.log().Error("kafka_publish_error", "type", event["type"], "error", err)
		}
	})
}

func (p *CartPublisher) topic() string {
	if p.Topic == "" {
		return DefaultCartTopic
	}
	return p.Topic
}

func (p *CartPublisher) log() *slog.Logger {
	if p.Log == nil {
		return slog.Default()
	}
	return p.Log
}
