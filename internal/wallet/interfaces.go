package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines wallet persistence operations on the users table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error)
}
