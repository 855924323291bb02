package products

import (
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	pkgpagination "github.com/matrknhash/marketplace-backend/pkg/pagination"
)

// ListParams configures pagination plus the optional search term and
// category filter for catalog lists.
type ListParams struct {
	pkgpagination.Params
	Search   string
	Category string
}

// ListResult wraps a page of products plus the cursor for the next page.
type ListResult struct {
	Products []models.Product `json:"products"`
	Cursor   string           `json:"cursor,omitempty"`
}

type listQuery struct {
	limit    int
	cursor   *pkgpagination.Cursor
	search   string
	category string
}

// CreateProductInput is a vendor's new catalog entry.
type CreateProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image,omitempty"`
}

// UpdateProductInput carries a partial edit; nil fields stay untouched.
type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	ImageURL    *string          `json:"image,omitempty"`
}
