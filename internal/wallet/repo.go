package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/matrknhash/marketplace-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("wallet_balance").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return decimal.Zero, err
	}
	return user.WalletBalance, nil
}

// Debit decrements the balance only when it covers the amount. The returned
// row count distinguishes an insufficient balance from a successful debit.
func (r *repository) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET wallet_balance = wallet_balance - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND wallet_balance >= ?
	`, amount, userID, amount)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET wallet_balance = wallet_balance + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, amount, userID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
