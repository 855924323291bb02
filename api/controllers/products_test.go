package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	internalproducts "github.com/matrknhash/marketplace-backend/internal/products"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
)

type stubProductService struct {
	create     func(ctx context.Context, vendorID uuid.UUID, input internalproducts.CreateProductInput) (*models.Product, error)
	update     func(ctx context.Context, vendorID, productID uuid.UUID, input internalproducts.UpdateProductInput) (*models.Product, error)
	remove     func(ctx context.Context, vendorID, productID uuid.UUID) error
	listVendor func(ctx context.Context, vendorID uuid.UUID, params internalproducts.ListParams) (*internalproducts.ListResult, error)
	get        func(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	list       func(ctx context.Context, params internalproducts.ListParams) (*internalproducts.ListResult, error)
	suggest    func(ctx context.Context, term string) ([]string, error)
}

func (s stubProductService) CreateProduct(ctx context.Context, vendorID uuid.UUID, input internalproducts.CreateProductInput) (*models.Product, error) {
	return s.create(ctx, vendorID, input)
}

func (s stubProductService) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input internalproducts.UpdateProductInput) (*models.Product, error) {
	return s.update(ctx, vendorID, productID, input)
}

func (s stubProductService) DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error {
	return s.remove(ctx, vendorID, productID)
}

func (s stubProductService) ListVendorProducts(ctx context.Context, vendorID uuid.UUID, params internalproducts.ListParams) (*internalproducts.ListResult, error) {
	return s.listVendor(ctx, vendorID, params)
}

func (s stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.get(ctx, productID)
}

func (s stubProductService) ListProducts(ctx context.Context, params internalproducts.ListParams) (*internalproducts.ListResult, error) {
	return s.list(ctx, params)
}

func (s stubProductService) Suggest(ctx context.Context, term string) ([]string, error) {
	return s.suggest(ctx, term)
}

func TestListProductsPassesSearchAndCategory(t *testing.T) {
	t.Parallel()

	var gotParams internalproducts.ListParams
	handler := ListProducts(stubProductService{
		list: func(ctx context.Context, params internalproducts.ListParams) (*internalproducts.ListResult, error) {
			gotParams = params
			return &internalproducts.ListResult{Products: []models.Product{}}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=brake&category=Brakes&limit=10", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if gotParams.Search != "brake" || gotParams.Category != "Brakes" || gotParams.Limit != 10 {
		t.Fatalf("unexpected params: %+v", gotParams)
	}
}

func TestListProductsRejectsOversizedLimit(t *testing.T) {
	t.Parallel()

	handler := ListProducts(stubProductService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=5000", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestProductDetailNotFound(t *testing.T) {
	t.Parallel()

	handler := ProductDetail(stubProductService{
		get: func(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}, testLogger())

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	req = withRouteParam(req, "productID", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusNotFound)
}

func TestSuggestProducts(t *testing.T) {
	t.Parallel()

	handler := SuggestProducts(stubProductService{
		suggest: func(ctx context.Context, term string) ([]string, error) {
			if term != "tim" {
				t.Errorf("unexpected term %q", term)
			}
			return []string{"Timing Belt Kit", "Timing Chain"}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/suggestions?q=tim", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)

	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0] != "Timing Belt Kit" {
		t.Fatalf("unexpected suggestions: %v", envelope.Data)
	}
}

func TestCreateProductUsesVendorIdentity(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	var gotVendor uuid.UUID

	handler := CreateProduct(stubProductService{
		create: func(ctx context.Context, id uuid.UUID, input internalproducts.CreateProductInput) (*models.Product, error) {
			gotVendor = id
			return &models.Product{ID: uuid.New(), VendorID: id, Name: input.Name, Price: input.Price}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products",
		strings.NewReader(`{"name":"Oil Filter","description":"OEM spec","category":"Filters","price":"45.50","stock":12}`))
	req.Header.Set("Content-Type", "application/json")
	req = asIdentity(req, vendorID, enums.UserRoleVendor)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusCreated)
	if gotVendor != vendorID {
		t.Fatalf("expected vendor %s, got %s", vendorID, gotVendor)
	}
}

func TestUpdateProductPartialBody(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	productID := uuid.New()
	var gotInput internalproducts.UpdateProductInput

	handler := UpdateProduct(stubProductService{
		update: func(ctx context.Context, vid, pid uuid.UUID, input internalproducts.UpdateProductInput) (*models.Product, error) {
			gotInput = input
			return &models.Product{ID: pid, VendorID: vid, Price: decimal.RequireFromString("99.00")}, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/vendor/products/"+productID.String(),
		strings.NewReader(`{"price":"99.00"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asIdentity(req, vendorID, enums.UserRoleVendor)
	req = withRouteParam(req, "productID", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if gotInput.Price == nil || !gotInput.Price.Equal(decimal.RequireFromString("99.00")) {
		t.Fatalf("expected price update, got %+v", gotInput)
	}
	if gotInput.Name != nil || gotInput.Stock != nil {
		t.Fatalf("expected untouched fields to stay nil: %+v", gotInput)
	}
}

func TestDeleteProductForbiddenSurfaces(t *testing.T) {
	t.Parallel()

	handler := DeleteProduct(stubProductService{
		remove: func(ctx context.Context, vendorID, productID uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}, testLogger())

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+productID.String(), nil)
	req = asIdentity(req, uuid.New(), enums.UserRoleVendor)
	req = withRouteParam(req, "productID", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusNotFound)
}
