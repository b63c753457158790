package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	"github.com/postin54-boop/mani-me-sub002/pkg/logger"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox/payloads"
)

// Notification is one outbound customer push.
type Notification struct {
	Target string            `json:"target"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Sink delivers notifications to the customer's device. Delivery is
// best-effort; a sink error is logged by the caller and never propagates
// back to the state change that produced the event.
type Sink interface {
	Push(ctx context.Context, notification Notification) error
}

// LogSink writes notifications to the log instead of a push provider.
// Used in dev and as the default until a provider is wired.
type LogSink struct {
	logg *logger.Logger
}

// NewLogSink builds a log-backed sink.
func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Push(ctx context.Context, notification Notification) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"target": notification.Target,
		"title":  notification.Title,
	})
	s.logg.Info(ctx, "notification dispatched")
	return nil
}

// Dispatcher turns domain events into customer notifications. The message
// content comes from the authoritative status table; nothing here encodes
// its own copy.
type Dispatcher struct {
	sink Sink
	logg *logger.Logger
}

// NewDispatcher wires a dispatcher with the provided sink.
func NewDispatcher(sink Sink, logg *logger.Logger) (*Dispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	return &Dispatcher{sink: sink, logg: logg}, nil
}

// Handle consumes one domain event. Event types that carry no customer
// notification are skipped silently; at-least-once delivery upstream means
// duplicates are possible and acceptable.
func (d *Dispatcher) Handle(ctx context.Context, eventType enums.OutboxEventType, payload []byte) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decoding event envelope: %w", err)
	}

	switch eventType {
	case enums.EventShipmentStatusChanged:
		var event payloads.ShipmentStatusChangedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decoding status change event: %w", err)
		}
		return d.pushStatus(ctx, event)
	case enums.EventShipmentBooked:
		var event payloads.ShipmentBookedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decoding booked event: %w", err)
		}
		return d.pushBooked(ctx, event)
	default:
		return nil
	}
}

func (d *Dispatcher) pushStatus(ctx context.Context, event payloads.ShipmentStatusChangedEvent) error {
	p := shipments.PresentationFor(event.ToStatus)
	return d.sink.Push(ctx, Notification{
		Target: event.ReceiverPhone,
		Title:  p.NotifyTitle,
		Body:   p.NotifyBody,
		Data: map[string]string{
			"tracking_number": event.TrackingNumber,
			"status":          string(event.ToStatus),
		},
	})
}

func (d *Dispatcher) pushBooked(ctx context.Context, event payloads.ShipmentBookedEvent) error {
	p := shipments.PresentationFor(enums.ShipmentStatusBooked)
	return d.sink.Push(ctx, Notification{
		Target: event.ReceiverPhone,
		Title:  p.NotifyTitle,
		Body:   p.NotifyBody,
		Data: map[string]string{
			"tracking_number": event.TrackingNumber,
			"status":          string(enums.ShipmentStatusBooked),
		},
	})
}
