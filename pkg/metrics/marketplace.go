package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics records counters for the order pipeline and the
// notification fan-out.
type MarketplaceMetrics struct {
	ordersCreated          *prometheus.CounterVec
	statusTransitions      *prometheus.CounterVec
	carrierBookings        *prometheus.CounterVec
	notificationsDelivered prometheus.Counter
	notificationsDropped   prometheus.Counter
}

// NewMarketplaceMetrics registers the marketplace metrics on the provided registerer.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through checkout.",
	}, []string{"payment_method"})
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by target status.",
	}, []string{"status", "actor"})
	carrierBookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carrier_bookings_total",
		Help: "Shipment bookings by carrier and outcome.",
	}, []string{"carrier", "outcome"})
	notificationsDelivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Events delivered to connected subscribers.",
	})
	notificationsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Events dropped because no subscriber could receive them.",
	})
	reg.MustRegister(ordersCreated, statusTransitions, carrierBookings, notificationsDelivered, notificationsDropped)
	return &MarketplaceMetrics{
		ordersCreated:          ordersCreated,
		statusTransitions:      statusTransitions,
		carrierBookings:        carrierBookings,
		notificationsDelivered: notificationsDelivered,
		notificationsDropped:   notificationsDropped,
	}
}

// IncOrderCreated increments the checkout counter for a payment method.
func (m *MarketplaceMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStatusTransition increments the transition counter for a target status.
func (m *MarketplaceMetrics) IncStatusTransition(status, actor string) {
	if m == nil || m.statusTransitions == nil {
		return
	}
	m.statusTransitions.WithLabelValues(normalizeLabel(status), normalizeLabel(actor)).Inc()
}

// IncCarrierBooking increments the booking counter for a carrier and outcome.
func (m *MarketplaceMetrics) IncCarrierBooking(carrier, outcome string) {
	if m == nil || m.carrierBookings == nil {
		return
	}
	m.carrierBookings.WithLabelValues(normalizeLabel(carrier), normalizeLabel(outcome)).Inc()
}

// IncNotificationDelivered counts one delivered event.
func (m *MarketplaceMetrics) IncNotificationDelivered() {
	if m == nil || m.notificationsDelivered == nil {
		return
	}
	m.notificationsDelivered.Inc()
}

// IncNotificationDropped counts one dropped event.
func (m *MarketplaceMetrics) IncNotificationDropped() {
	if m == nil || m.notificationsDropped == nil {
		return
	}
	m.notificationsDropped.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
