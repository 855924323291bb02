package notifications

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
)

// Event is the payload fanned out to connected clients. The same shape is
// used for admin broadcasts and per-user deliveries.
type Event struct {
	Type       enums.EventType   `json:"type"`
	Message    string            `json:"message"`
	OrderID    uuid.UUID         `json:"orderId"`
	Status     enums.OrderStatus `json:"status,omitempty"`
	TotalPrice decimal.Decimal   `json:"totalPrice,omitempty"`
}

// NewOrderEvent builds the event announcing a freshly placed order.
func NewOrderEvent(order *models.Order) Event {
	return Event{
		Type:       enums.EventNewOrder,
		Message:    fmt.Sprintf("New order %s placed", order.ID),
		OrderID:    order.ID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	}
}

// OrderStatusEvent builds the event announcing a lifecycle transition.
func OrderStatusEvent(order *models.Order) Event {
	return Event{
		Type:       enums.EventOrderStatus,
		Message:    fmt.Sprintf("Order %s is now %s", order.ID, order.Status),
		OrderID:    order.ID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	}
}
