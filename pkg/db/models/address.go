package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is one labeled entry in a user's address book. At most one address
// per user carries IsDefault; the service layer enforces the flag exclusivity.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	Label     string    `gorm:"column:label;not null" json:"label"`
	Details   string    `gorm:"column:details;not null" json:"details"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
