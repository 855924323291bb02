package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/internal/notifications"
	"github.com/matrknhash/marketplace-backend/internal/orders"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	"github.com/matrknhash/marketplace-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, event notifications.Event)
	BroadcastToAdmins(ctx context.Context, event notifications.Event)
}

type walletDebiter interface {
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
}

// Service turns a cart into a persisted order. The wallet debit and the order
// insert share one transaction: either both land or neither does.
type Service interface {
	Execute(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*models.Order, error)
}

type service struct {
	repo    orders.Repository
	tx      txRunner
	wallet  walletDebiter
	notify  notifier
	metrics *metrics.MarketplaceMetrics
	logg    *logger.Logger
}

// NewService wires checkout dependencies.
func NewService(repo orders.Repository, tx txRunner, wallet walletDebiter, notify notifier, mets *metrics.MarketplaceMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		wallet:  wallet,
		notify:  notify,
		metrics: mets,
		logg:    logg,
	}, nil
}

func (s *service) Execute(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	order, err := s.buildOrder(customerID, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if order.PaymentMethod == enums.PaymentMethodWallet {
			if err := s.wallet.Debit(ctx, tx, customerID, order.TotalPrice); err != nil {
				return err
			}
		}
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderCreated(order.PaymentMethod.String())
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order created")

	event := notifications.NewOrderEvent(order)
	s.notify.BroadcastToAdmins(ctx, event)
	for _, vendorID := range order.VendorIDs() {
		s.notify.NotifyUser(ctx, vendorID, event)
	}
	return order, nil
}

// buildOrder validates the cart and assembles the order row. The total is
// recomputed from the line items; a client total that disagrees is rejected
// rather than trusted.
func (s *service) buildOrder(customerID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.ShippingAddress.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	total := decimal.Zero
	items := make([]models.OrderLineItem, 0, len(input.Items))
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: product id required", i))
		}
		if item.VendorID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: vendor id required", i))
		}
		if item.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: name required", i))
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be at least 1", i))
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: unit price cannot be negative", i))
		}
		line := models.OrderLineItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		}
		total = total.Add(line.LineTotal())
		items = append(items, line)
	}
	if !input.TotalPrice.Equal(total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total price does not match cart items").WithDetails(map[string]string{
			"computed": total.StringFixed(2),
			"supplied": input.TotalPrice.StringFixed(2),
		})
	}

	return &models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Items:           items,
		TotalPrice:      total,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          enums.OrderStatusPending,
		ShippingCarrier: enums.ShippingCarrierNone,
		Version:         1,
	}, nil
}
