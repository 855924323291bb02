package enums

// EventType names the real-time events pushed over the notification channel.
type EventType string

const (
	EventNewOrder    EventType = "new_order"
	EventOrderStatus EventType = "order_status"
)

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}
