package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/enums"
)

// Purchase groups the items bought from a single store in one checkout. It
// moves forward through the purchase status lifecycle and is never edited
// outside version-checked updates.
type Purchase struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID                uuid.UUID            `gorm:"column:user_id;type:uuid;index;not null"`
	StoreID               uuid.UUID            `gorm:"column:store_id;type:uuid;index;not null"`
	PurchaseStatusCode    enums.PurchaseStatus `gorm:"column:purchase_status_code;not null"`
	TotalPrice            decimal.Decimal      `gorm:"column:total_price;type:numeric(14,2);not null"`
	EstimatedDeliveryDate time.Time            `gorm:"column:estimated_delivery_date;not null"`
	DeliveredDateTime     *time.Time           `gorm:"column:delivered_date_time"`
	IsDeleted             bool                 `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber         int64                `gorm:"column:version_number;not null;default:1"`
	Items                 []PurchaseItem       `gorm:"foreignKey:PurchaseID"`
	Store                 *Store               `gorm:"foreignKey:StoreID"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	ensureVersion(&p.VersionNumber)
	return nil
}
