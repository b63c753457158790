package notify

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
)

// Consumer watches the domain-event subscription and pushes customer
// notifications. Delivery is best-effort: every message is acked, including
// ones the dispatcher fails on, so a flaky push provider never backs up the
// subscription.
type Consumer struct {
	dispatcher   *Dispatcher
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds a notification consumer over the domain subscription.
func NewConsumer(dispatcher *Dispatcher, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		dispatcher:   dispatcher,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.process(ctx, msg)
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if err := c.dispatcher.Handle(ctx, eventType, msg.Data); err != nil {
		c.logg.Error(logCtx, "notification dispatch failed", err)
		return
	}
}
