package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a seller storefront owned by a single user. DeliveryLeadDay feeds
// estimated delivery dates on purchases.
type Store struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	Name            string    `gorm:"column:name;not null"`
	DeliveryLeadDay int       `gorm:"column:delivery_lead_day;not null;default:0"`
	IsDeleted       bool      `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber   int64     `gorm:"column:version_number;not null;default:1"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	ensureVersion(&s.VersionNumber)
	return nil
}
