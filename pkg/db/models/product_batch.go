package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductBatch is a physical stock delivery for one product. A nil
// ExpiredDate means the batch never expires and sorts after every dated
// batch during allocation.
type ProductBatch struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID  `gorm:"column:product_id;type:uuid;index;not null"`
	BatchNumber   string     `gorm:"column:batch_number;not null"`
	QuantityTotal int64      `gorm:"column:quantity_total;not null"`
	QuantityLeft  int64      `gorm:"column:quantity_left;not null"`
	ArrivedOn     time.Time  `gorm:"column:arrived_on;not null"`
	ExpiredDate   *time.Time `gorm:"column:expired_date"`
	IsDeleted     bool       `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber int64      `gorm:"column:version_number;not null;default:1"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *ProductBatch) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	ensureVersion(&b.VersionNumber)
	return nil
}
