package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseItem is one line of a purchase. UnitPrice is a snapshot taken at
// purchase time, never a live reference to the product.
type PurchaseItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseID    uuid.UUID       `gorm:"column:purchase_id;type:uuid;index;not null"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;index;not null"`
	Quantity      int64           `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	VersionNumber int64           `gorm:"column:version_number;not null;default:1"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	ensureVersion(&i.VersionNumber)
	return nil
}
