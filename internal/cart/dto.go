package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddInput puts quantity units of a product into the caller's cart.
type AddInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"gte=1"`
}

// UpdateInput changes the quantity of an open cart item.
type UpdateInput struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	Quantity      int64     `json:"quantity" validate:"gte=1"`
	VersionNumber int64     `json:"versionNumber" validate:"gte=1"`
}

// Ack acknowledges a cart mutation.
type Ack struct {
	ID            uuid.UUID `json:"id"`
	VersionNumber int64     `json:"versionNumber"`
}

// View is an open cart item with the context needed to render it.
type View struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"productId"`
	ProductName       string          `json:"productName"`
	StoreID           uuid.UUID       `json:"storeId"`
	StoreName         string          `json:"storeName"`
	Quantity          int64           `json:"quantity"`
	UnitShortName     string          `json:"unitShortName"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	QuantityAvailable int64           `json:"quantityAvailable"`
	VersionNumber     int64           `json:"versionNumber"`
}
