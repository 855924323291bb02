package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.User, error)
	// UpdateCAS applies updates only when the stored version still matches.
	// It bumps the version as part of the write and reports affected rows.
	UpdateCAS(ctx context.Context, orderID uuid.UUID, version int64, updates map[string]any) (int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, query listQuery) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, query listQuery) ([]models.Order, error)
	ListAll(ctx context.Context, query listQuery) ([]models.Order, error)
	ListReturns(ctx context.Context, query listQuery) ([]models.Order, error)
}
