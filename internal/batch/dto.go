package batch

import (
	"time"

	"github.com/google/uuid"
)

// ListQuery carries the validated listing parameters.
type ListQuery struct {
	ProductID uuid.UUID
	Sort      string
	Order     string
	Offset    int
	Fetch     int
}

// CreateBatchInput is the payload for registering a new stock delivery.
type CreateBatchInput struct {
	ProductID     uuid.UUID  `json:"productId" validate:"required"`
	BatchNumber   string     `json:"batchNumber" validate:"required,max=100"`
	QuantityTotal int64      `json:"quantityTotal" validate:"gte=0"`
	QuantityLeft  int64      `json:"quantityLeft" validate:"gte=0"`
	ArrivedOn     time.Time  `json:"arrivedOn" validate:"required"`
	ExpiredDate   *time.Time `json:"expiredDate"`
}

// UpdateBatchInput is the payload for editing an existing batch.
type UpdateBatchInput struct {
	ID            uuid.UUID  `json:"id" validate:"required"`
	BatchNumber   string     `json:"batchNumber" validate:"required,max=100"`
	QuantityTotal int64      `json:"quantityTotal" validate:"gte=0"`
	QuantityLeft  int64      `json:"quantityLeft" validate:"gte=0"`
	ArrivedOn     time.Time  `json:"arrivedOn" validate:"required"`
	ExpiredDate   *time.Time `json:"expiredDate"`
	VersionNumber int64      `json:"versionNumber" validate:"gte=1"`
}

// Ack acknowledges a successful batch mutation.
type Ack struct {
	ID            uuid.UUID `json:"id"`
	VersionNumber int64     `json:"versionNumber"`
}

// View is the read model returned by batch listings.
type View struct {
	ID            uuid.UUID  `json:"id"`
	BatchNumber   string     `json:"batchNumber"`
	QuantityTotal int64      `json:"quantityTotal"`
	QuantityLeft  int64      `json:"quantityLeft"`
	ArrivedOn     time.Time  `json:"arrivedOn"`
	ExpiredDate   *time.Time `json:"expiredDate"`
	VersionNumber int64      `json:"versionNumber"`
}
