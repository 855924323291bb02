package enums

import "fmt"

// ShippingCarrier names the carrier booked for an order. None is the default
// before an admin confirms the shipment.
type ShippingCarrier string

const (
	ShippingCarrierNone   ShippingCarrier = "None"
	ShippingCarrierBosta  ShippingCarrier = "Bosta"
	ShippingCarrierAramex ShippingCarrier = "Aramex"
)

var validShippingCarriers = []ShippingCarrier{
	ShippingCarrierNone,
	ShippingCarrierBosta,
	ShippingCarrierAramex,
}

// String implements fmt.Stringer.
func (c ShippingCarrier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ShippingCarrier.
func (c ShippingCarrier) IsValid() bool {
	for _, candidate := range validShippingCarriers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseShippingCarrier converts raw input into a ShippingCarrier.
func ParseShippingCarrier(value string) (ShippingCarrier, error) {
	for _, candidate := range validShippingCarriers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping carrier %q", value)
}
