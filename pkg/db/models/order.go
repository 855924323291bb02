package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/enums"
	"github.com/matrknhash/marketplace-backend/pkg/types"
)

// Order is the aggregate root for the fulfillment lifecycle. Orders are
// append-only history records: they are created by checkout, mutated only by
// the lifecycle engine, and never deleted.
//
// Version backs optimistic concurrency: every status write is a
// compare-and-swap against the version read, so concurrent writers surface a
// conflict instead of silently overwriting each other.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID      uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`
	Items           []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice      decimal.Decimal       `gorm:"column:total_price;type:numeric(12,2);not null" json:"totalPrice"`
	ShippingAddress types.AddressSnapshot `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null;default:'Wallet'" json:"paymentMethod"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'Pending'" json:"status"`
	ReturnStatus    *enums.ReturnStatus   `gorm:"column:return_status;type:text" json:"returnStatus"`
	ReturnReason    *string               `gorm:"column:return_reason" json:"returnReason,omitempty"`

	// Shipping sub-state, populated only after carrier confirmation.
	ShippingCarrier  enums.ShippingCarrier `gorm:"column:shipping_carrier;type:text;not null;default:'None'" json:"shippingCarrier"`
	TrackingNumber   *string               `gorm:"column:tracking_number" json:"trackingNumber,omitempty"`
	ShippingLabelURL *string               `gorm:"column:shipping_label_url" json:"shippingLabelUrl,omitempty"`
	CarrierBookingID *string               `gorm:"column:carrier_booking_id" json:"carrierBookingId,omitempty"`

	Version   int64     `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// VendorIDs returns the distinct vendors appearing on the order's line items,
// in first-appearance order.
func (o *Order) VendorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	out := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		out = append(out, item.VendorID)
	}
	return out
}

// HasVendor reports whether the vendor sells at least one line item.
func (o *Order) HasVendor(vendorID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}
