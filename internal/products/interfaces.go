package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

// Repository persists catalog entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, productID uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) (int64, error)

	List(ctx context.Context, query listQuery) ([]models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, query listQuery) ([]models.Product, error)
	Suggest(ctx context.Context, term string, limit int) ([]string, error)
}
