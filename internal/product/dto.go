package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchQuery carries the marketplace listing parameters.
type SearchQuery struct {
	Keyword string
	Sort    string
	Order   string
	Offset  int
	Fetch   int
}

// CreateInput is the store owner's payload for a new listing.
type CreateInput struct {
	Name            string          `json:"name" validate:"required,max=200"`
	SKU             string          `json:"skuCode" validate:"required,max=200"`
	UnitOfMeasureID uuid.UUID       `json:"unitOfMeasureId" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"required"`
}

// UpdateInput edits an existing listing.
type UpdateInput struct {
	ID              uuid.UUID       `json:"id" validate:"required"`
	Name            string          `json:"name" validate:"required,max=200"`
	SKU             string          `json:"skuCode" validate:"required,max=200"`
	UnitOfMeasureID uuid.UUID       `json:"unitOfMeasureId" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"required"`
	VersionNumber   int64           `json:"versionNumber" validate:"gte=1"`
}

// Ack acknowledges a successful product mutation.
type Ack struct {
	ID            uuid.UUID `json:"id"`
	VersionNumber int64     `json:"versionNumber"`
}

// View is the product read model, with stock counters when loaded.
type View struct {
	ID                uuid.UUID       `json:"id"`
	StoreID           uuid.UUID       `json:"storeId"`
	StoreName         string          `json:"storeName"`
	Name              string          `json:"name"`
	SKU               string          `json:"skuCode"`
	UnitOfMeasureID   uuid.UUID       `json:"unitOfMeasureId"`
	UnitShortName     string          `json:"unitShortName"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	QuantityAvailable int64           `json:"quantityAvailable"`
	QuantitySold      int64           `json:"quantitySold"`
	VersionNumber     int64           `json:"versionNumber"`
}
