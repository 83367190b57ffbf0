package product

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the marketplace catalog and the owner's product admin.
type Service interface {
	Search(ctx context.Context, query SearchQuery) (pagination.Page[View], error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	ListOwned(ctx context.Context, userID uuid.UUID, offset, fetch int) (pagination.Page[View], error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Ack, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error)
	Delete(ctx context.Context, userID, id uuid.UUID, version int64) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the product service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg}
}

func (s *service) Search(ctx context.Context, query SearchQuery) (pagination.Page[View], error) {
	var empty pagination.Page[View]

	sort, err := enums.ParseProductSortKey(query.Sort)
	if err != nil {
		return empty, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	order, err := enums.ParseSortOrder(query.Order)
	if err != nil {
		return empty, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	page := pagination.Params{Offset: query.Offset, Fetch: query.Fetch}
	rows, total, err := s.repo.Search(ctx, query.Keyword, sort, order, page)
	if err != nil {
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching products")
	}
	return pagination.NewPage(toViews(rows), total, page), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	view := toView(*row)
	return &view, nil
}

func (s *service) ListOwned(ctx context.Context, userID uuid.UUID, offset, fetch int) (pagination.Page[View], error) {
	var empty pagination.Page[View]

	store, err := s.requireStore(ctx, s.repo, userID)
	if err != nil {
		return empty, err
	}

	page := pagination.Params{Offset: offset, Fetch: fetch}
	rows, total, err := s.repo.ListByStore(ctx, store.ID, page)
	if err != nil {
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing owned products")
	}
	return pagination.NewPage(toViews(rows), total, page), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Ack, error) {
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		store, err := s.requireStore(ctx, repo, userID)
		if err != nil {
			return err
		}
		if _, err := repo.FindUnitOfMeasure(ctx, input.UnitOfMeasureID); err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unit of measure not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading unit of measure")
		}

		row := models.Product{
			StoreID:         store.ID,
			Name:            input.Name,
			SKU:             input.SKU,
			UnitOfMeasureID: input.UnitOfMeasureID,
			UnitPrice:       input.UnitPrice,
		}
		if err := repo.Create(ctx, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
		}
		// A product always carries exactly one stock row.
		if err := repo.CreateStock(ctx, &models.ProductStock{ProductID: row.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product stock")
		}

		ack = &Ack{ID: row.ID, VersionNumber: row.VersionNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error) {
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireOwned(ctx, repo, userID, input.ID); err != nil {
			return err
		}
		if _, err := repo.FindUnitOfMeasure(ctx, input.UnitOfMeasureID); err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unit of measure not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading unit of measure")
		}

		affected, err := repo.UpdateVersioned(ctx, input.ID, input.VersionNumber, map[string]any{
			"name":               input.Name,
			"sku":                input.SKU,
			"unit_of_measure_id": input.UnitOfMeasureID,
			"unit_price":         input.UnitPrice,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product was modified by another request")
		}
		ack = &Ack{ID: input.ID, VersionNumber: input.VersionNumber + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID, version int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireOwned(ctx, repo, userID, id); err != nil {
			return err
		}

		affected, err := repo.UpdateVersioned(ctx, id, version, map[string]any{
			"is_deleted": true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product was modified by another request")
		}
		return nil
	})
}

func (s *service) requireStore(ctx context.Context, repo Repository, userID uuid.UUID) (*models.Store, error) {
	store, err := repo.FindStoreByOwner(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "caller has no store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}
	return store, nil
}

func (s *service) requireOwned(ctx context.Context, repo Repository, userID, productID uuid.UUID) error {
	row, err := repo.FindByID(ctx, productID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if row.Store == nil || row.Store.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product is not owned by the caller")
	}
	return nil
}

func toViews(rows []models.Product) []View {
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views
}

func toView(row models.Product) View {
	view := View{
		ID:              row.ID,
		StoreID:         row.StoreID,
		Name:            row.Name,
		SKU:             row.SKU,
		UnitOfMeasureID: row.UnitOfMeasureID,
		UnitPrice:       row.UnitPrice,
		VersionNumber:   row.VersionNumber,
	}
	if row.Store != nil {
		view.StoreName = row.Store.Name
	}
	if row.UnitOfMeasure != nil {
		view.UnitShortName = row.UnitOfMeasure.ShortName
	}
	if row.Stock != nil {
		view.QuantityAvailable = row.Stock.QuantityAvailable
		view.QuantitySold = row.Stock.QuantitySold
	}
	return view
}
