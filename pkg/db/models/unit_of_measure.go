package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitOfMeasure is a lookup row for product quantity units.
type UnitOfMeasure struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	ShortName string    `gorm:"column:short_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *UnitOfMeasure) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
