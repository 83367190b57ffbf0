package purchase

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

// Repository is the persistence surface for purchases and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOpenCartItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.CartItem, error)
	CreatePurchase(ctx context.Context, row *models.Purchase) error
	CreatePurchaseItems(ctx context.Context, rows []models.PurchaseItem) error
	CloseCartItem(ctx context.Context, id uuid.UUID, version int64, purchaseItemID uuid.UUID) (int64, error)

	CountInState(ctx context.Context, actor Actor, userID uuid.UUID, ids []uuid.UUID, status enums.PurchaseStatus) (int64, error)
	BulkTransition(ctx context.Context, actor Actor, userID uuid.UUID, ids []uuid.UUID, from enums.PurchaseStatus, updates map[string]any) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Purchase, error)
	FindStoreByOwner(ctx context.Context, userID uuid.UUID) (*models.Store, error)

	ListActive(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
	ListHistory(ctx context.Context, userID uuid.UUID, keyword string, page pagination.Params) ([]models.PurchaseItem, int64, error)
	ListForStore(ctx context.Context, storeID uuid.UUID, status enums.PurchaseStatus, page pagination.Params) ([]models.Purchase, int64, error)
}
