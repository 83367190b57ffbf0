package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the checkout payload: the open cart items to convert.
type CreateInput struct {
	CartItemIDs []uuid.UUID `json:"cartItemIds" validate:"required,min=1"`
}

// TransitionInput is the payload shared by every status transition.
type TransitionInput struct {
	PurchaseIDs []uuid.UUID `json:"purchaseIds" validate:"required,min=1"`
}

// Ack acknowledges one created purchase.
type Ack struct {
	ID            uuid.UUID `json:"id"`
	VersionNumber int64     `json:"versionNumber"`
}

// StatusView reports a purchase's state after a transition.
type StatusView struct {
	ID            uuid.UUID `json:"id"`
	StatusCode    string    `json:"statusCode"`
	StatusName    string    `json:"statusName"`
	VersionNumber int64     `json:"versionNumber"`
}

// ItemView is one line of a purchase as shown to the customer.
type ItemView struct {
	ProductID     uuid.UUID       `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	UnitShortName string          `json:"unitShortName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
}

// View is a purchase with its items.
type View struct {
	ID                    uuid.UUID       `json:"id"`
	StoreID               uuid.UUID       `json:"storeId"`
	StoreName             string          `json:"storeName"`
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	PurchasedOn           time.Time       `json:"purchasedOn"`
	EstimatedDeliveryDate time.Time       `json:"estimatedDeliveryDate"`
	DeliveredDateTime     *time.Time      `json:"deliveredDateTime"`
	StatusCode            string          `json:"statusCode"`
	StatusName            string          `json:"statusName"`
	Items                 []ItemView      `json:"items"`
	VersionNumber         int64           `json:"versionNumber"`
}

// HistoryQuery filters the customer's received purchase items.
type HistoryQuery struct {
	Keyword string
	Offset  int
	Fetch   int
}

// HistoryItem is one received purchase line.
type HistoryItem struct {
	ID            uuid.UUID       `json:"id"`
	StoreID       uuid.UUID       `json:"storeId"`
	StoreName     string          `json:"storeName"`
	ProductID     uuid.UUID       `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	UnitShortName string          `json:"unitShortName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PurchasedOn   time.Time       `json:"purchasedOn"`
}

// StoreQuery filters purchases placed against the caller's store.
type StoreQuery struct {
	StatusCode string
	Offset     int
	Fetch      int
}
