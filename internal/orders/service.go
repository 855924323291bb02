package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/internal/notifications"
	"github.com/matrknhash/marketplace-backend/internal/shipping"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	"github.com/matrknhash/marketplace-backend/pkg/metrics"
	pkgpagination "github.com/matrknhash/marketplace-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, event notifications.Event)
}

type carrierRegistry interface {
	Resolve(name enums.ShippingCarrier) (shipping.Carrier, error)
}

// Service drives the order lifecycle: reads, vendor and admin transitions,
// carrier confirmation, and return requests.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params ListParams) (*ListResult, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params ListParams) (*ListResult, error)
	ListAllOrders(ctx context.Context, params ListParams) (*ListResult, error)
	ListReturnRequests(ctx context.Context, params ListParams) (*ListResult, error)
	VendorUpdateStatus(ctx context.Context, input VendorStatusInput) (*models.Order, error)
	AdminOverrideStatus(ctx context.Context, input AdminStatusInput) (*models.Order, error)
	ConfirmAndShip(ctx context.Context, input ConfirmShipInput) (*models.Order, error)
	RequestReturn(ctx context.Context, input ReturnRequestInput) (*models.Order, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notify   notifier
	carriers carrierRegistry
	metrics  *metrics.MarketplaceMetrics
	logg     *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notify notifier, carriers carrierRegistry, mets *metrics.MarketplaceMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if carriers == nil {
		return nil, fmt.Errorf("carrier registry required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notify:   notify,
		carriers: carriers,
		metrics:  mets,
		logg:     logg,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleVendor:
		if !order.HasVendor(actor.UserID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not include this vendor's items")
		}
	default:
		if order.CustomerID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
	}
	return order, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params ListParams) (*ListResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	query, limit, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return buildListResult(rows, limit), nil
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params ListParams) (*ListResult, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	query, limit, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}
	return buildListResult(rows, limit), nil
}

func (s *service) ListAllOrders(ctx context.Context, params ListParams) (*ListResult, error) {
	query, limit, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAll(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildListResult(rows, limit), nil
}

func (s *service) ListReturnRequests(ctx context.Context, params ListParams) (*ListResult, error) {
	query, limit, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReturns(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list return requests")
	}
	return buildListResult(rows, limit), nil
}

// VendorUpdateStatus applies a vendor's whole-order transition. The vendor
// must sell at least one line item on the order. Repeating the current status
// is an idempotent no-op.
func (s *service) VendorUpdateStatus(ctx context.Context, input VendorStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var updated *models.Order
	noop := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if !order.HasVendor(input.VendorID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not include this vendor's items")
		}
		if order.Status == input.Status {
			noop = true
			updated = order
			return nil
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order already %s", order.Status))
		}
		if input.Status == enums.OrderStatusCancelled &&
			order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "orders can only be cancelled before shipping")
		}

		if err := s.casUpdate(ctx, repo, order, map[string]any{"status": input.Status}); err != nil {
			return err
		}
		order.Status = input.Status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.metrics.IncStatusTransition(input.Status.String(), "vendor")
		s.notify.NotifyUser(ctx, updated.CustomerID, notifications.OrderStatusEvent(updated))
	}
	return updated, nil
}

// AdminOverrideStatus sets the status without transition checks. The write is
// still versioned and the customer is notified on every call.
func (s *service) AdminOverrideStatus(ctx context.Context, input AdminStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := s.casUpdate(ctx, repo, order, map[string]any{"status": input.Status}); err != nil {
			return err
		}
		order.Status = input.Status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(input.Status.String(), "admin")
	s.notify.NotifyUser(ctx, updated.CustomerID, notifications.OrderStatusEvent(updated))
	return updated, nil
}

// ConfirmAndShip books the shipment with the requested carrier and moves the
// order to Shipped. The booking happens outside the database write: a failed
// booking leaves the order untouched.
func (s *service) ConfirmAndShip(ctx context.Context, input ConfirmShipInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	carrier, err := s.carriers.Resolve(input.Carrier)
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(ctx, s.repo, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("only pending orders can be confirmed, order is %s", order.Status))
	}

	customer, err := s.repo.FindCustomer(ctx, order.CustomerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	shipment, err := carrier.CreateShipment(ctx, order, customer)
	if err != nil {
		s.metrics.IncCarrierBooking(carrier.Name().String(), "failure")
		return nil, err
	}
	s.metrics.IncCarrierBooking(carrier.Name().String(), "success")

	updates := map[string]any{
		"status":             enums.OrderStatusShipped,
		"shipping_carrier":   carrier.Name(),
		"tracking_number":    shipment.TrackingNumber,
		"shipping_label_url": shipment.LabelURL,
		"carrier_booking_id": shipment.BookingID,
	}
	if err := s.casUpdate(ctx, s.repo, order, updates); err != nil {
		warnCtx := s.logg.WithOrderID(ctx, order.ID.String())
		warnCtx = s.logg.WithField(warnCtx, "booking_id", shipment.BookingID)
		s.logg.Warn(warnCtx, "order changed during carrier booking, booking orphaned")
		return nil, err
	}

	order.Status = enums.OrderStatusShipped
	order.ShippingCarrier = carrier.Name()
	order.TrackingNumber = &shipment.TrackingNumber
	order.ShippingLabelURL = &shipment.LabelURL
	order.CarrierBookingID = &shipment.BookingID

	s.metrics.IncStatusTransition(enums.OrderStatusShipped.String(), "admin")
	s.notify.NotifyUser(ctx, order.CustomerID, notifications.OrderStatusEvent(order))
	return order, nil
}

// RequestReturn records the customer's return request. The request can be
// filed regardless of the order status; filing again overwrites the reason.
func (s *service) RequestReturn(ctx context.Context, input ReturnRequestInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return reason required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}

		updates := map[string]any{
			"return_status": enums.ReturnStatusRequested,
			"return_reason": input.Reason,
		}
		if err := s.casUpdate(ctx, repo, order, updates); err != nil {
			return err
		}
		requested := enums.ReturnStatusRequested
		order.ReturnStatus = &requested
		order.ReturnReason = &input.Reason
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) casUpdate(ctx context.Context, repo Repository, order *models.Order, updates map[string]any) error {
	rows, err := repo.UpdateCAS(ctx, order.ID, order.Version, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently, retry")
	}
	order.Version++
	return nil
}

func buildListQuery(params ListParams) (listQuery, int, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		status: params.Status,
	}
	if params.Status != nil && !params.Status.IsValid() {
		return listQuery{}, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *params.Status))
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return listQuery{}, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}
	return query, limit, nil
}

func buildListResult(rows []models.Order, limit int) *ListResult {
	cursor := ""
	if len(rows) > limit {
		cursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}
	return &ListResult{Orders: rows, Cursor: cursor}
}
