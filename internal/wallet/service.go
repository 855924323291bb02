package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
)

// Service exposes wallet balance reads and transactional movements.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo Repository
}

// NewService wires wallet dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if userID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet balance")
	}
	return balance, nil
}

// Debit withdraws the amount inside the caller's transaction. The balance
// check and the decrement are a single conditional UPDATE, so concurrent
// checkouts cannot overdraw the wallet.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount cannot be negative")
	}

	repo := s.repo.WithTx(tx)
	rows, err := repo.Debit(ctx, userID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
	}
	if rows > 0 {
		return nil
	}

	// zero rows: either the user is missing or the balance fell short
	balance, err := repo.Balance(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet balance")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "wallet balance is insufficient").WithDetails(map[string]string{
		"balance":  balance.StringFixed(2),
		"required": amount.StringFixed(2),
	})
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount cannot be negative")
	}

	rows, err := s.repo.WithTx(tx).Credit(ctx, userID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
