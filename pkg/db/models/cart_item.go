package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is a user's intent to buy a quantity of one product. An item is
// open while PurchaseItemID is nil; once linked to a purchase item it is
// closed and never mutated again.
type CartItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;index;not null"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;index;not null"`
	Quantity       int64      `gorm:"column:quantity;not null"`
	PurchaseItemID *uuid.UUID `gorm:"column:purchase_item_id;type:uuid"`
	IsDeleted      bool       `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber  int64      `gorm:"column:version_number;not null;default:1"`
	Product        *Product   `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	ensureVersion(&c.VersionNumber)
	return nil
}
