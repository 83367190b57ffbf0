package purchase

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

// NewRepository builds a purchase repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOpenCartItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Store").
		Preload("Product.Stock").
		Where("user_id = ? AND purchase_item_id IS NULL AND is_deleted = ? AND id IN ?", userID, false, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreatePurchase(ctx context.Context, row *models.Purchase) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) CreatePurchaseItems(ctx context.Context, rows []models.PurchaseItem) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) CloseCartItem(ctx context.Context, id uuid.UUID, version int64, purchaseItemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND version_number = ? AND purchase_item_id IS NULL AND is_deleted = ?", id, version, false).
		Updates(map[string]any{
			"purchase_item_id": purchaseItemID,
			"version_number":   gorm.Expr("version_number + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// scope narrows a purchase query to rows the actor may touch: customers see
// their own purchases, store owners see purchases placed against their store.
func (r *repository) scope(q *gorm.DB, actor Actor, userID uuid.UUID) *gorm.DB {
	if actor == ActorStoreOwner {
		sub := r.db.Model(&models.Store{}).Select("id").Where("user_id = ? AND is_deleted = ?", userID, false)
		return q.Where("store_id IN (?)", sub)
	}
	return q.Where("user_id = ?", userID)
}

func (r *repository) CountInState(ctx context.Context, actor Actor, userID uuid.UUID, ids []uuid.UUID, status enums.PurchaseStatus) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id IN ? AND purchase_status_code = ? AND is_deleted = ?", ids, status, false)
	q = r.scope(q, actor, userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting purchases: %w", err)
	}
	return total, nil
}

func (r *repository) BulkTransition(ctx context.Context, actor Actor, userID uuid.UUID, ids []uuid.UUID, from enums.PurchaseStatus, updates map[string]any) (int64, error) {
	updates["version_number"] = gorm.Expr("version_number + 1")

	q := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id IN ? AND purchase_status_code = ? AND is_deleted = ?", ids, from, false)
	q = r.scope(q, actor, userID)

	result := q.Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("transitioning purchases: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
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

func (r *repository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.UnitOfMeasure").
		Where("user_id = ? AND is_deleted = ? AND purchase_status_code NOT IN ?", userID, false, endStates).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListHistory(ctx context.Context, userID uuid.UUID, keyword string, page pagination.Params) ([]models.PurchaseItem, int64, error) {
	purchaseFilter := r.db.Model(&models.Purchase{}).Select("id").
		Where("user_id = ? AND purchase_status_code = ? AND is_deleted = ?", userID, enums.PurchaseStatusReceived, false)

	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.PurchaseItem{}).
			Where("purchase_id IN (?)", purchaseFilter)
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			productFilter := r.db.Model(&models.Product{}).Select("id").
				Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
			q = q.Where("product_id IN (?)", productFilter)
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting history: %w", err)
	}

	var rows []models.PurchaseItem
	err := build().
		Preload("Product").
		Preload("Product.Store").
		Preload("Product.UnitOfMeasure").
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Fetch).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}
	return rows, total, nil
}

func (r *repository) ListForStore(ctx context.Context, storeID uuid.UUID, status enums.PurchaseStatus, page pagination.Params) ([]models.Purchase, int64, error) {
	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.Purchase{}).
			Where("store_id = ? AND is_deleted = ?", storeID, false)
		if status != "" {
			q = q.Where("purchase_status_code = ?", status)
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting store purchases: %w", err)
	}

	var rows []models.Purchase
	err := build().
		Preload("Store").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.UnitOfMeasure").
		Order("created_at ASC").
		Offset(page.Offset).
		Limit(page.Fetch).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing store purchases: %w", err)
	}
	return rows, total, nil
}
