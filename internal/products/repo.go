package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Update(ctx context.Context, productID uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, vendorID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *repository) List(ctx context.Context, query listQuery) ([]models.Product, error) {
	return r.collect(r.listBase(ctx, query), query)
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, query listQuery) ([]models.Product, error) {
	db := r.listBase(ctx, query).Where("vendor_id = ?", vendorID)
	return r.collect(db, query)
}

// Suggest returns distinct product names matching the term prefix or
// substring, for typeahead. Plain LIKE, no ranking.
func (r *repository) Suggest(ctx context.Context, term string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("name").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *repository) listBase(ctx context.Context, query listQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Product{})
	if query.search != "" {
		pattern := "%" + strings.ToLower(query.search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if query.category != "" {
		db = db.Where("category = ?", query.category)
	}
	if query.cursor != nil {
		db = db.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.cursor.CreatedAt, query.cursor.CreatedAt, query.cursor.ID)
	}
	return db
}

func (r *repository) collect(db *gorm.DB, query listQuery) ([]models.Product, error) {
	var rows []models.Product
	err := db.Order("created_at DESC").Order("id DESC").Limit(query.limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
