package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

// Repository persists the profile sub-resources: the address book and the
// vehicle garage.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) (int64, error)
	ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error

	ListVehicles(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	FindVehicle(ctx context.Context, userID, vehicleID uuid.UUID) (*models.Vehicle, error)
	FindPrimaryVehicle(ctx context.Context, userID uuid.UUID) (*models.Vehicle, error)
	CountVehicles(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, userID, vehicleID uuid.UUID) (int64, error)
	ClearPrimaryVehicle(ctx context.Context, userID uuid.UUID) error
	SetPrimaryVehicle(ctx context.Context, userID, vehicleID uuid.UUID) (int64, error)
}
