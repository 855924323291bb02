package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
	suggests []string
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, productID uuid.UUID, updates map[string]any) (int64, error) {
	product, ok := s.products[productID]
	if !ok {
		return 0, nil
	}
	if name, ok := updates["name"]; ok {
		product.Name = name.(string)
	}
	if price, ok := updates["price"]; ok {
		product.Price = price.(decimal.Decimal)
	}
	if stock, ok := updates["stock"]; ok {
		product.Stock = stock.(int)
	}
	return 1, nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, vendorID, productID uuid.UUID) (int64, error) {
	product, ok := s.products[productID]
	if !ok || product.VendorID != vendorID {
		return 0, nil
	}
	delete(s.products, productID)
	return 1, nil
}

func (s *stubProductsRepo) List(ctx context.Context, query listQuery) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range s.products {
		rows = append(rows, *product)
	}
	return rows, nil
}

func (s *stubProductsRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, query listQuery) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range s.products {
		if product.VendorID == vendorID {
			rows = append(rows, *product)
		}
	}
	return rows, nil
}

func (s *stubProductsRepo) Suggest(ctx context.Context, term string, limit int) ([]string, error) {
	return s.suggests, nil
}

func newProductsService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProductValidation(t *testing.T) {
	svc := newProductsService(t, newStubProductsRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "blank name", input: CreateProductInput{Price: decimal.NewFromInt(10)}},
		{name: "negative price", input: CreateProductInput{Name: "Filter", Price: decimal.NewFromInt(-10)}},
		{name: "negative stock", input: CreateProductInput{Name: "Filter", Price: decimal.NewFromInt(10), Stock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, uuid.New(), tt.input)
			domainErr := pkgerrors.As(err)
			if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newProductsService(t, repo)
	ctx := context.Background()

	vendorID := uuid.New()
	product, err := svc.CreateProduct(ctx, vendorID, CreateProductInput{
		Name: "Oil filter", Price: decimal.NewFromInt(80), Stock: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Oil filter premium"
	_, err = svc.UpdateProduct(ctx, uuid.New(), product.ID, UpdateProductInput{Name: &newName})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign vendor, got %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, vendorID, product.ID, UpdateProductInput{Name: &newName})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestUpdateProductPartialEdit(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newProductsService(t, repo)
	ctx := context.Background()

	vendorID := uuid.New()
	product, err := svc.CreateProduct(ctx, vendorID, CreateProductInput{
		Name: "Oil filter", Price: decimal.NewFromInt(80), Stock: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stock := 12
	updated, err := svc.UpdateProduct(ctx, vendorID, product.ID, UpdateProductInput{Stock: &stock})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stock != 12 {
		t.Errorf("stock = %d", updated.Stock)
	}
	if updated.Name != "Oil filter" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
}

func TestUpdateProductRejectsNegativePrice(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newProductsService(t, repo)
	ctx := context.Background()

	vendorID := uuid.New()
	product, err := svc.CreateProduct(ctx, vendorID, CreateProductInput{
		Name: "Oil filter", Price: decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := decimal.NewFromInt(-5)
	_, err = svc.UpdateProduct(ctx, vendorID, product.ID, UpdateProductInput{Price: &bad})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := newProductsService(t, newStubProductsRepo())

	err := svc.DeleteProduct(context.Background(), uuid.New(), uuid.New())
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSuggestBlankTermShortCircuits(t *testing.T) {
	repo := newStubProductsRepo()
	repo.suggests = []string{"should not appear"}
	svc := newProductsService(t, repo)

	names, err := svc.Suggest(context.Background(), "   ")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("blank term must return an empty list, got %v", names)
	}
}
