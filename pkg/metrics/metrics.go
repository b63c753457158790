package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ShipmentMetrics records counters for the parcel lifecycle and money paths.
type ShipmentMetrics struct {
	statusTransitions     *prometheus.CounterVec
	promoRedemptions      *prometheus.CounterVec
	settlementResolutions *prometheus.CounterVec
	outboxPublished       prometheus.Counter
	outboxFailed          prometheus.Counter
}

// NewShipmentMetrics registers the lifecycle metrics on the provided registerer.
func NewShipmentMetrics(reg prometheus.Registerer) *ShipmentMetrics {
	if reg == nil {
		return &ShipmentMetrics{}
	}
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_status_transitions_total",
		Help: "Successful shipment status transitions by target status.",
	}, []string{"status"})
	promoRedemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_redemptions_total",
		Help: "Promo application outcomes.",
	}, []string{"result"})
	settlementResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_resolutions_total",
		Help: "Cash settlement reports resolved by decision.",
	}, []string{"decision"})
	outboxPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully published.",
	})
	outboxFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox publish attempts that failed.",
	})
	reg.MustRegister(statusTransitions, promoRedemptions, settlementResolutions, outboxPublished, outboxFailed)
	return &ShipmentMetrics{
		statusTransitions:     statusTransitions,
		promoRedemptions:      promoRedemptions,
		settlementResolutions: settlementResolutions,
		outboxPublished:       outboxPublished,
		outboxFailed:          outboxFailed,
	}
}

// IncStatusTransition counts a successful transition into status.
func (m *ShipmentMetrics) IncStatusTransition(status string) {
	if m == nil || m.statusTransitions == nil {
		return
	}
	m.statusTransitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncPromoRedemption counts a promo application outcome ("applied", "rejected").
func (m *ShipmentMetrics) IncPromoRedemption(result string) {
	if m == nil || m.promoRedemptions == nil {
		return
	}
	m.promoRedemptions.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncSettlementResolution counts a settlement decision.
func (m *ShipmentMetrics) IncSettlementResolution(decision string) {
	if m == nil || m.settlementResolutions == nil {
		return
	}
	m.settlementResolutions.WithLabelValues(normalizeLabel(decision)).Inc()
}

// IncOutboxPublished counts one published outbox event.
func (m *ShipmentMetrics) IncOutboxPublished() {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.Inc()
}

// IncOutboxFailed counts one failed publish attempt.
func (m *ShipmentMetrics) IncOutboxFailed() {
	if m == nil || m.outboxFailed == nil {
		return
	}
	m.outboxFailed.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
