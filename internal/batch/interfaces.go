package batch

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

// Repository is the persistence surface for batch administration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductWithStore(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductBatch, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, sort enums.BatchSortKey, order enums.SortOrder, page pagination.Params) ([]models.ProductBatch, int64, error)
	Create(ctx context.Context, row *models.ProductBatch) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error)
}
