package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is one entry in a user's garage. At most one vehicle per user
// carries IsPrimary; the primary vehicle drives fitment defaults.
type Vehicle struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	Make      string    `gorm:"column:make;not null" json:"make"`
	Model     string    `gorm:"column:model;not null" json:"model"`
	Year      int       `gorm:"column:year;not null" json:"year"`
	Engine    *string   `gorm:"column:engine" json:"engine,omitempty"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false" json:"isPrimary"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
