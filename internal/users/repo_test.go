package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	addresses := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  label TEXT NOT NULL,
  details TEXT NOT NULL,
  is_default BOOLEAN NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(addresses).Error)

	vehicles := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  engine TEXT,
  is_primary BOOLEAN NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(vehicles).Error)
	return db
}

func seedAddress(t *testing.T, db *gorm.DB, userID uuid.UUID, isDefault bool) uuid.UUID {
	t.Helper()
	address := &models.Address{
		ID:        uuid.New(),
		UserID:    userID,
		Label:     "Home",
		Details:   "12 Tahrir St, Cairo",
		IsDefault: isDefault,
	}
	require.NoError(t, db.Create(address).Error)
	return address.ID
}

func seedVehicle(t *testing.T, db *gorm.DB, userID uuid.UUID, isPrimary bool) uuid.UUID {
	t.Helper()
	vehicle := &models.Vehicle{
		ID:        uuid.New(),
		UserID:    userID,
		Make:      "Toyota",
		Model:     "Corolla",
		Year:      2019,
		IsPrimary: isPrimary,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle.ID
}

func TestRepositoryClearDefaultAddressScopedToUser(t *testing.T) {
	ctx := context.Background()
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	otherUser := uuid.New()
	mine := seedAddress(t, db, userID, true)
	other := seedAddress(t, db, otherUser, true)

	require.NoError(t, repo.ClearDefaultAddress(ctx, userID))

	cleared, err := repo.FindAddress(ctx, userID, mine)
	require.NoError(t, err)
	assert.False(t, cleared.IsDefault)

	untouched, err := repo.FindAddress(ctx, otherUser, other)
	require.NoError(t, err)
	assert.True(t, untouched.IsDefault, "other users' defaults must survive")
}

func TestRepositoryDeleteAddressScopedToOwner(t *testing.T) {
	ctx := context.Background()
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	addressID := seedAddress(t, db, userID, false)

	rows, err := repo.DeleteAddress(ctx, uuid.New(), addressID)
	require.NoError(t, err)
	assert.Zero(t, rows, "stranger must not delete")

	rows, err = repo.DeleteAddress(ctx, userID, addressID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestRepositorySetPrimaryVehicle(t *testing.T) {
	ctx := context.Background()
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	oldPrimary := seedVehicle(t, db, userID, true)
	next := seedVehicle(t, db, userID, false)

	require.NoError(t, repo.ClearPrimaryVehicle(ctx, userID))
	rows, err := repo.SetPrimaryVehicle(ctx, userID, next)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	primary, err := repo.FindPrimaryVehicle(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, next, primary.ID)

	old, err := repo.FindVehicle(ctx, userID, oldPrimary)
	require.NoError(t, err)
	assert.False(t, old.IsPrimary)
}

func TestRepositoryFindPrimaryVehicleAbsent(t *testing.T) {
	ctx := context.Background()
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	seedVehicle(t, db, userID, false)

	_, err := repo.FindPrimaryVehicle(ctx, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCountVehicles(t *testing.T) {
	ctx := context.Background()
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	count, err := repo.CountVehicles(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	seedVehicle(t, db, userID, true)
	seedVehicle(t, db, userID, false)

	count, err = repo.CountVehicles(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
