package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
)

// Repository is the persistence surface for cart items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOpen(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindOpenByProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error)
	FindStock(ctx context.Context, productID uuid.UUID) (*models.ProductStock, error)
	Create(ctx context.Context, row *models.CartItem) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error)
}
