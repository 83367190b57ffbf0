package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListOpen(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Store").
		Preload("Product.Stock").
		Preload("Product.UnitOfMeasure").
		Where("user_id = ? AND purchase_item_id IS NULL AND is_deleted = ?", userID, false).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOpenByProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND purchase_item_id IS NULL AND is_deleted = ?", userID, productID, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND purchase_item_id IS NULL AND is_deleted = ?", id, userID, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindStock(ctx context.Context, productID uuid.UUID) (*models.ProductStock, error) {
	var row models.ProductStock
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *models.CartItem) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error) {
	updates["version_number"] = gorm.Expr("version_number + 1")
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND version_number = ? AND purchase_item_id IS NULL AND is_deleted = ?", id, version, false).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
