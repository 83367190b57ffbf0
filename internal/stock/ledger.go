// Package stock owns the per-product sellable counters. quantity_available is
// the single authority for whether a sale may proceed; batches only mirror the
// physical picture.
package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
)

// ReservationRequest asks for quantity units of one product.
type ReservationRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

// AvailabilityResult reports the advisory pre-check outcome for one product.
type AvailabilityResult struct {
	ProductID uuid.UUID
	Available int64
	Requested int64
	Enough    bool
}

// CheckAvailability reads current availability for the requested products
// without locking anything. It is advisory only; Reserve re-checks at write
// time and remains the authority.
func CheckAvailability(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) ([]AvailabilityResult, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be positive for product %s", req.ProductID))
		}
		ids = append(ids, req.ProductID)
	}

	var rows []models.ProductStock
	if err := tx.WithContext(ctx).Where("product_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading stock rows: %w", err)
	}

	available := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		available[row.ProductID] = row.QuantityAvailable
	}

	results := make([]AvailabilityResult, 0, len(requests))
	for _, req := range requests {
		qty, ok := available[req.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("stock row missing for product %s", req.ProductID))
		}
		results = append(results, AvailabilityResult{
			ProductID: req.ProductID,
			Available: qty,
			Requested: req.Quantity,
			Enough:    qty >= req.Quantity,
		})
	}
	return results, nil
}

// Reserve decrements quantity_available and increments quantity_sold for one
// product. The decrement is conditional on sufficient availability at write
// time; zero rows affected means another buyer got there first.
func Reserve(ctx context.Context, tx *gorm.DB, req ReservationRequest) error {
	if req.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
	}

	result := tx.WithContext(ctx).
		Model(&models.ProductStock{}).
		Where("product_id = ? AND quantity_available >= ?", req.ProductID, req.Quantity).
		Updates(map[string]any{
			"quantity_available": gorm.Expr("quantity_available - ?", req.Quantity),
			"quantity_sold":      gorm.Expr("quantity_sold + ?", req.Quantity),
		})
	if result.Error != nil {
		return fmt.Errorf("reserving stock for product %s: %w", req.ProductID, result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("not enough stock for product %s", req.ProductID))
	}
	return nil
}

// AdjustForBatchChange applies a signed delta to quantity_available when a
// batch is created, edited or removed. Runs in the same transaction as the
// batch write; no guard, the caller already validated the batch bounds.
func AdjustForBatchChange(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}

	result := tx.WithContext(ctx).
		Model(&models.ProductStock{}).
		Where("product_id = ?", productID).
		Update("quantity_available", gorm.Expr("quantity_available + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("adjusting stock for product %s: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("stock row missing for product %s", productID))
	}
	return nil
}
