package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStock is the authoritative sellable counter pair for one product.
// QuantityAvailable never drops below zero; reservations are conditional
// decrements checked at write time.
type ProductStock struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;uniqueIndex;not null"`
	QuantityAvailable int64     `gorm:"column:quantity_available;not null;default:0"`
	QuantitySold      int64     `gorm:"column:quantity_sold;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *ProductStock) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
