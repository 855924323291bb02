package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem captures the snapshot of each item within an order. Name and
// UnitPrice are copied from the product at purchase time and are decoupled
// from the live product record. VendorID names the vendor responsible for
// fulfilling this line; one order may span multiple vendors.
type OrderLineItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	VendorID  uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendorId"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	ImageURL  *string         `gorm:"column:image_url" json:"image,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// LineTotal returns unit price times quantity.
func (i OrderLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
