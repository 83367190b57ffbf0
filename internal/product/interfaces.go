package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

// Repository is the persistence surface for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Search(ctx context.Context, keyword string, sort enums.ProductSortKey, order enums.SortOrder, page pagination.Params) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, page pagination.Params) ([]models.Product, int64, error)
	FindStoreByOwner(ctx context.Context, userID uuid.UUID) (*models.Store, error)
	FindUnitOfMeasure(ctx context.Context, id uuid.UUID) (*models.UnitOfMeasure, error)
	Create(ctx context.Context, row *models.Product) error
	CreateStock(ctx context.Context, row *models.ProductStock) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error)
}
