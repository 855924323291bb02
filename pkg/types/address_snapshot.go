package types

import "strings"

// AddressSnapshot is the shipping address copied onto an order at checkout.
// It is a point-in-time copy, not a reference into the customer's address
// book, so later edits to the address book never affect past orders.
type AddressSnapshot struct {
	Label   string `json:"label"`
	Details string `json:"details"`
}

// IsZero reports whether the snapshot carries no usable address.
func (a AddressSnapshot) IsZero() bool {
	return strings.TrimSpace(a.Label) == "" && strings.TrimSpace(a.Details) == ""
}
