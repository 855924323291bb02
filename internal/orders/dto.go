package orders

import (
	"github.com/google/uuid"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgpagination "github.com/matrknhash/marketplace-backend/pkg/pagination"
)

// ListParams configures pagination and optional filters for order lists.
type ListParams struct {
	pkgpagination.Params
	Status *enums.OrderStatus
}

// ListResult wraps a page of orders plus the cursor for the next page.
type ListResult struct {
	Orders []models.Order `json:"orders"`
	Cursor string         `json:"cursor,omitempty"`
}

type listQuery struct {
	limit  int
	cursor *pkgpagination.Cursor
	status *enums.OrderStatus
}

// Actor identifies who is asking for an order detail.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// VendorStatusInput carries a vendor's whole-order status update.
type VendorStatusInput struct {
	OrderID  uuid.UUID
	VendorID uuid.UUID
	Status   enums.OrderStatus
}

// AdminStatusInput carries an admin override of the order status.
type AdminStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
}

// ConfirmShipInput carries the admin confirm-and-ship request. Carrier may be
// empty; the registry falls back to the default carrier.
type ConfirmShipInput struct {
	OrderID uuid.UUID
	Carrier enums.ShippingCarrier
}

// ReturnRequestInput carries a customer's return request.
type ReturnRequestInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Reason     string
}
