package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateAddressInput is a new address book entry.
type CreateAddressInput struct {
	Label     string `json:"label"`
	Details   string `json:"details"`
	IsDefault bool   `json:"isDefault"`
}

// CreateVehicleInput is a new garage entry.
type CreateVehicleInput struct {
	Make   string  `json:"make"`
	Model  string  `json:"model"`
	Year   int     `json:"year"`
	Engine *string `json:"engine,omitempty"`
}

// Service manages the customer's address book and vehicle garage.
type Service interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	ListVehicles(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	PrimaryVehicle(ctx context.Context, userID uuid.UUID) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, userID uuid.UUID, input CreateVehicleInput) (*models.Vehicle, error)
	SetPrimaryVehicle(ctx context.Context, userID, vehicleID uuid.UUID) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, userID, vehicleID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires profile dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

// CreateAddress inserts the entry. A new default clears the old default in
// the same transaction, so at most one address carries the flag.
func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address label required")
	}
	if strings.TrimSpace(input.Details) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address details required")
	}

	address := &models.Address{
		ID:        uuid.New(),
		UserID:    userID,
		Label:     strings.TrimSpace(input.Label),
		Details:   strings.TrimSpace(input.Details),
		IsDefault: input.IsDefault,
		CreatedAt: time.Now().UTC(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if _, err := repo.CreateAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	rows, err := s.repo.DeleteAddress(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) ListVehicles(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListVehicles(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return rows, nil
}

func (s *service) PrimaryVehicle(ctx context.Context, userID uuid.UUID) (*models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	vehicle, err := s.repo.FindPrimaryVehicle(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no primary vehicle in the garage")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load primary vehicle")
	}
	return vehicle, nil
}

// CreateVehicle inserts the entry. The first vehicle in the garage becomes
// primary automatically.
func (s *service) CreateVehicle(ctx context.Context, userID uuid.UUID, input CreateVehicleInput) (*models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle make and model required")
	}
	if input.Year < 1900 || input.Year > time.Now().Year()+1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("implausible vehicle year %d", input.Year))
	}

	vehicle := &models.Vehicle{
		ID:        uuid.New(),
		UserID:    userID,
		Make:      strings.TrimSpace(input.Make),
		Model:     strings.TrimSpace(input.Model),
		Year:      input.Year,
		Engine:    input.Engine,
		CreatedAt: time.Now().UTC(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountVehicles(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vehicles")
		}
		vehicle.IsPrimary = count == 0
		if _, err := repo.CreateVehicle(ctx, vehicle); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// SetPrimaryVehicle moves the flag: the previous primary is cleared and the
// target set within one transaction.
func (s *service) SetPrimaryVehicle(ctx context.Context, userID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}

	var vehicle *models.Vehicle
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearPrimaryVehicle(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear primary vehicle")
		}
		rows, err := repo.SetPrimaryVehicle(ctx, userID, vehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set primary vehicle")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		vehicle, err = repo.FindVehicle(ctx, userID, vehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle removes the entry. Deleting the primary leaves the garage
// with no primary; the customer picks a new one explicitly.
func (s *service) DeleteVehicle(ctx context.Context, userID, vehicleID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if vehicleID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	rows, err := s.repo.DeleteVehicle(ctx, userID, vehicleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return nil
}
