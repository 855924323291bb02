package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/enums"
)

// User represents the canonical identity entity. WalletBalance is the stored
// prepaid balance debited at checkout; it must never go negative.
type User struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Email         string          `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash  string          `gorm:"column:password_hash" json:"-"`
	Role          enums.UserRole  `gorm:"column:role;type:text;not null;default:'customer'" json:"role"`
	Phone         *string         `gorm:"column:phone" json:"phone,omitempty"`
	WalletBalance decimal.Decimal `gorm:"column:wallet_balance;type:numeric(12,2);not null;default:0" json:"walletBalance"`
	Addresses     []Address       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Garage        []Vehicle       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"garage,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
