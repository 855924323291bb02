package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgpagination "github.com/matrknhash/marketplace-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  shipping_address TEXT,
  payment_method TEXT NOT NULL DEFAULT 'Wallet',
  status TEXT NOT NULL DEFAULT 'Pending',
  return_status TEXT,
  return_reason TEXT,
  shipping_carrier TEXT NOT NULL DEFAULT 'None',
  tracking_number TEXT,
  shipping_label_url TEXT,
  carrier_booking_id TEXT,
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)

	items := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  image_url TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(items).Error)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  phone TEXT,
  wallet_balance NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

type seedOrderOpts struct {
	customerID uuid.UUID
	vendorID   uuid.UUID
	status     enums.OrderStatus
	returned   bool
	createdAt  time.Time
}

func seedDBOrder(t *testing.T, db *gorm.DB, opts seedOrderOpts) uuid.UUID {
	t.Helper()
	if opts.customerID == uuid.Nil {
		opts.customerID = uuid.New()
	}
	if opts.vendorID == uuid.Nil {
		opts.vendorID = uuid.New()
	}
	if opts.status == "" {
		opts.status = enums.OrderStatusPending
	}
	if opts.createdAt.IsZero() {
		opts.createdAt = time.Now().UTC()
	}

	orderID := uuid.New()
	order := &models.Order{
		ID:         orderID,
		CustomerID: opts.customerID,
		TotalPrice: decimal.NewFromInt(250),
		Status:     opts.status,
		Version:    1,
		CreatedAt:  opts.createdAt,
		UpdatedAt:  opts.createdAt,
	}
	if opts.returned {
		requested := enums.ReturnStatusRequested
		reason := "damaged"
		order.ReturnStatus = &requested
		order.ReturnReason = &reason
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderLineItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: uuid.New(),
		VendorID:  opts.vendorID,
		Name:      "Oil filter",
		UnitPrice: decimal.NewFromInt(250),
		Quantity:  1,
	}
	require.NoError(t, db.Create(item).Error)
	return orderID
}

func TestRepositoryFindByIDPreloadsItems(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	vendorID := uuid.New()
	orderID := seedDBOrder(t, db, seedOrderOpts{vendorID: vendorID})

	order, err := repo.FindByID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, vendorID, order.Items[0].VendorID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
}

func TestRepositoryUpdateCASBumpsVersion(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	orderID := seedDBOrder(t, db, seedOrderOpts{})

	rows, err := repo.UpdateCAS(ctx, orderID, 1, map[string]any{
		"status": enums.OrderStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	order, err := repo.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
	assert.Equal(t, int64(2), order.Version)
}

func TestRepositoryUpdateCASStaleVersionWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	orderID := seedDBOrder(t, db, seedOrderOpts{})

	rows, err := repo.UpdateCAS(ctx, orderID, 7, map[string]any{
		"status": enums.OrderStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "stale version must not match")

	order, err := repo.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, int64(1), order.Version)
}

func TestRepositoryListByVendorMembership(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	vendorID := uuid.New()
	mine := seedDBOrder(t, db, seedOrderOpts{vendorID: vendorID})
	other := seedDBOrder(t, db, seedOrderOpts{})

	rows, err := repo.ListByVendor(ctx, vendorID, listQuery{limit: 10})
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		ids[row.ID] = true
	}
	assert.True(t, ids[mine], "vendor's order must be listed")
	assert.False(t, ids[other], "foreign order must be excluded")
}

func TestRepositoryListByCustomerCursorPagination(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	customerID := uuid.New()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	var seeded []uuid.UUID
	for i := 0; i < 3; i++ {
		id := seedDBOrder(t, db, seedOrderOpts{
			customerID: customerID,
			createdAt:  base.Add(time.Duration(i) * time.Minute),
		})
		seeded = append(seeded, id)
	}

	first, err := repo.ListByCustomer(ctx, customerID, listQuery{limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, seeded[2], first[0].ID, "newest first")
	assert.Equal(t, seeded[1], first[1].ID)

	cursor := &pkgpagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListByCustomer(ctx, customerID, listQuery{limit: 2, cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, seeded[0], second[0].ID)
}

func TestRepositoryListAllStatusFilter(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	customerID := uuid.New()
	shipped := seedDBOrder(t, db, seedOrderOpts{customerID: customerID, status: enums.OrderStatusShipped})
	seedDBOrder(t, db, seedOrderOpts{customerID: customerID, status: enums.OrderStatusPending})

	status := enums.OrderStatusShipped
	rows, err := repo.ListByCustomer(ctx, customerID, listQuery{limit: 10, status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, shipped, rows[0].ID)
}

func TestRepositoryListReturnsOnlyFlaggedOrders(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	flagged := seedDBOrder(t, db, seedOrderOpts{status: enums.OrderStatusDelivered, returned: true})
	plain := seedDBOrder(t, db, seedOrderOpts{status: enums.OrderStatusDelivered})

	rows, err := repo.ListReturns(ctx, listQuery{limit: 50})
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		ids[row.ID] = true
		require.NotNil(t, row.ReturnStatus)
	}
	assert.True(t, ids[flagged])
	assert.False(t, ids[plain])
}

func TestRepositoryFindCustomer(t *testing.T) {
	ctx := context.Background()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	customerID := uuid.New()
	err := db.Exec(
		`INSERT INTO users (id, name, email, password_hash, wallet_balance) VALUES (?, ?, ?, ?, ?)`,
		customerID, "Nadia", customerID.String()+"@example.com", "hash", "0",
	).Error
	require.NoError(t, err)

	customer, err := repo.FindCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, "Nadia", customer.Name)

	_, err = repo.FindCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
