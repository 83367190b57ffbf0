package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog listing. Each product carries exactly one
// ProductStock row holding its sellable counters.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;index;not null"`
	Name            string          `gorm:"column:name;not null"`
	SKU             string          `gorm:"column:sku;not null"`
	UnitOfMeasureID uuid.UUID       `gorm:"column:unit_of_measure_id;type:uuid;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	IsDeleted       bool            `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber   int64           `gorm:"column:version_number;not null;default:1"`
	Stock           *ProductStock   `gorm:"foreignKey:ProductID"`
	UnitOfMeasure   *UnitOfMeasure  `gorm:"foreignKey:UnitOfMeasureID"`
	Store           *Store          `gorm:"foreignKey:StoreID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	ensureVersion(&p.VersionNumber)
	return nil
}
