package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a batch repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProductWithStore(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("id = ? AND is_deleted = ?", productID, false).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductBatch, error) {
	var row models.ProductBatch
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID, sort enums.BatchSortKey, order enums.SortOrder, page pagination.Params) ([]models.ProductBatch, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductBatch{}).
		Where("product_id = ? AND is_deleted = ?", productID, false).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting batches: %w", err)
	}

	var rows []models.ProductBatch
	err = r.db.WithContext(ctx).
		Where("product_id = ? AND is_deleted = ?", productID, false).
		Order(orderClause(sort, order)).
		Offset(page.Offset).
		Limit(page.Fetch).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing batches: %w", err)
	}
	return rows, total, nil
}

func (r *repository) Create(ctx context.Context, row *models.ProductBatch) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error) {
	updates["version_number"] = gorm.Expr("version_number + 1")
	result := r.db.WithContext(ctx).
		Model(&models.ProductBatch{}).
		Where("id = ? AND version_number = ? AND is_deleted = ?", id, version, false).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// orderClause maps the closed sort enumeration to explicit order expressions.
func orderClause(sort enums.BatchSortKey, order enums.SortOrder) string {
	direction := "ASC"
	if order == enums.SortOrderDesc {
		direction = "DESC"
	}
	switch sort {
	case enums.BatchSortQuantityTotal:
		return "quantity_total " + direction
	case enums.BatchSortQuantityLeft:
		return "quantity_left " + direction
	case enums.BatchSortArrivedOn:
		return "arrived_on " + direction
	case enums.BatchSortExpiredDate:
		return "expired_date " + direction
	}
	return "arrived_on " + direction
}
