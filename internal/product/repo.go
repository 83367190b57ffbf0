package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Search(ctx context.Context, keyword string, sort enums.ProductSortKey, order enums.SortOrder, page pagination.Params) ([]models.Product, int64, error) {
	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("is_deleted = ?", false)
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	var rows []models.Product
	err := build().
		Preload("Stock").
		Preload("Store").
		Preload("UnitOfMeasure").
		Order(r.orderClause(sort, order)).
		Offset(page.Offset).
		Limit(page.Fetch).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("searching products: %w", err)
	}
	return rows, total, nil
}

// orderClause maps the closed sort enumeration to explicit order expressions.
// Sales ranking reads the stock counter through a correlated subquery so the
// listing query needs no join.
func (r *repository) orderClause(sort enums.ProductSortKey, order enums.SortOrder) string {
	direction := "ASC"
	if order == enums.SortOrderDesc {
		direction = "DESC"
	}
	switch sort {
	case enums.ProductSortPrice:
		return "unit_price " + direction
	case enums.ProductSortSales:
		return "(SELECT quantity_sold FROM product_stocks WHERE product_stocks.product_id = products.id) " + direction
	}
	return "name " + direction
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Preload("Store").
		Preload("UnitOfMeasure").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByStore(ctx context.Context, storeID uuid.UUID, page pagination.Params) ([]models.Product, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND is_deleted = ?", storeID, false).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting store products: %w", err)
	}

	var rows []models.Product
	err = r.db.WithContext(ctx).
		Preload("Stock").
		Preload("Store").
		Preload("UnitOfMeasure").
		Where("store_id = ? AND is_deleted = ?", storeID, false).
		Order("name ASC").
		Offset(page.Offset).
		Limit(page.Fetch).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing store products: %w", err)
	}
	return rows, total, nil
}

func (r *repository) FindStoreByOwner(ctx context.Context, userID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindUnitOfMeasure(ctx context.Context, id uuid.UUID) (*models.UnitOfMeasure, error) {
	var row models.UnitOfMeasure
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *models.Product) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) CreateStock(ctx context.Context, row *models.ProductStock) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error) {
	updates["version_number"] = gorm.Expr("version_number + 1")
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version_number = ? AND is_deleted = ?", id, version, false).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
