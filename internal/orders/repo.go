package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateCAS(ctx context.Context, orderID uuid.UUID, version int64, updates map[string]any) (int64, error) {
	merged := make(map[string]any, len(updates)+2)
	for key, value := range updates {
		merged[key] = value
	}
	merged["version"] = version + 1
	merged["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(merged)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, query listQuery) ([]models.Order, error) {
	db := r.listBase(ctx, query).Where("customer_id = ?", customerID)
	return r.collect(db, query)
}

// ListByVendor returns orders carrying at least one line item sold by the
// vendor. Membership lives on the line items, not the order row.
func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, query listQuery) ([]models.Order, error) {
	db := r.listBase(ctx, query).
		Where("id IN (?)", r.db.
			Model(&models.OrderLineItem{}).
			Select("order_id").
			Where("vendor_id = ?", vendorID))
	return r.collect(db, query)
}

func (r *repository) ListAll(ctx context.Context, query listQuery) ([]models.Order, error) {
	return r.collect(r.listBase(ctx, query), query)
}

func (r *repository) ListReturns(ctx context.Context, query listQuery) ([]models.Order, error) {
	db := r.listBase(ctx, query).Where("return_status IS NOT NULL")
	return r.collect(db, query)
}

func (r *repository) listBase(ctx context.Context, query listQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if query.status != nil {
		db = db.Where("status = ?", *query.status)
	}
	if query.cursor != nil {
		db = db.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.cursor.CreatedAt, query.cursor.CreatedAt, query.cursor.ID)
	}
	return db
}

func (r *repository) collect(db *gorm.DB, query listQuery) ([]models.Order, error) {
	var rows []models.Order
	err := db.Order("created_at DESC").Order("id DESC").Limit(query.limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
