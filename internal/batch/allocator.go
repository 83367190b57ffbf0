// Package batch manages physical stock batches and their FEFO depletion.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
)

// fefoOrder sorts dated batches first by soonest expiry, never-expiring
// batches after all dated stock, ties by batch id for reproducibility.
const fefoOrder = "CASE WHEN expired_date IS NULL THEN 1 ELSE 0 END, expired_date ASC, id ASC"

// BatchUpdate records one batch touched by an allocation.
type BatchUpdate struct {
	BatchID      uuid.UUID
	QuantityLeft int64
}

// AllocationResult reports which batches were depleted and any remainder the
// batches could not cover.
type AllocationResult struct {
	Updates   []BatchUpdate
	Shortfall int64
}

// Allocate walks the product's live batches first-expire-first-out and writes
// down their remainders until the requested quantity is covered. Every write
// is version checked; a stale batch fails the transaction with a conflict.
// A shortfall is returned, not an error: the sellable counter is the
// authority on whether the sale proceeds, batches only track the physical
// breakdown.
func Allocate(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int64) (*AllocationResult, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation quantity must be positive")
	}

	var batches []models.ProductBatch
	err := tx.WithContext(ctx).
		Where("product_id = ? AND is_deleted = ? AND quantity_left > 0", productID, false).
		Order(fefoOrder).
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("loading batches for product %s: %w", productID, err)
	}

	result := &AllocationResult{}
	remaining := quantity

	for _, candidate := range batches {
		if remaining <= 0 {
			break
		}

		newLeft := candidate.QuantityLeft - remaining
		if newLeft < 0 {
			newLeft = 0
		}
		remaining -= candidate.QuantityLeft

		update := tx.WithContext(ctx).
			Model(&models.ProductBatch{}).
			Where("id = ? AND version_number = ?", candidate.ID, candidate.VersionNumber).
			Updates(map[string]any{
				"quantity_left":  newLeft,
				"version_number": gorm.Expr("version_number + 1"),
			})
		if update.Error != nil {
			return nil, fmt.Errorf("updating batch %s: %w", candidate.ID, update.Error)
		}
		if update.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("batch %s changed concurrently", candidate.ID))
		}

		result.Updates = append(result.Updates, BatchUpdate{BatchID: candidate.ID, QuantityLeft: newLeft})
	}

	if remaining > 0 {
		result.Shortfall = remaining
	}
	return result, nil
}
