package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/enums"
	"github.com/matrknhash/marketplace-backend/pkg/types"
)

// CartItem is one line of the incoming cart. Name and UnitPrice are the
// values shown to the customer and are snapshotted onto the order as-is.
type CartItem struct {
	ProductID uuid.UUID       `json:"productId"`
	VendorID  uuid.UUID       `json:"vendorId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageURL  *string         `json:"image,omitempty"`
}

// CheckoutInput is the full checkout request. TotalPrice is the total the
// customer saw; the service recomputes it from the items and rejects the
// request when the two disagree.
type CheckoutInput struct {
	Items           []CartItem            `json:"items"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
	ShippingAddress types.AddressSnapshot `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod   `json:"paymentMethod"`
}
