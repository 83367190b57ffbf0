package cart

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the caller's open cart items. Availability checks here are
// advisory; checkout re-validates against the ledger.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]View, error)
	QuantityForProduct(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Ack, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error)
	Delete(ctx context.Context, userID, id uuid.UUID, version int64) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the cart service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg}
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]View, error) {
	rows, err := s.repo.ListOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		view := View{
			ID:            row.ID,
			ProductID:     row.ProductID,
			Quantity:      row.Quantity,
			VersionNumber: row.VersionNumber,
		}
		if row.Product != nil {
			view.ProductName = row.Product.Name
			view.StoreID = row.Product.StoreID
			view.UnitPrice = row.Product.UnitPrice
			if row.Product.Store != nil {
				view.StoreName = row.Product.Store.Name
			}
			if row.Product.UnitOfMeasure != nil {
				view.UnitShortName = row.Product.UnitOfMeasure.ShortName
			}
			if row.Product.Stock != nil {
				view.QuantityAvailable = row.Product.Stock.QuantityAvailable
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) QuantityForProduct(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	row, err := s.repo.FindOpenByProduct(ctx, userID, productID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	return row.Quantity, nil
}

// Add merges into an existing open item for the same product, so a user holds
// at most one open cart line per product.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Ack, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		stockRow, err := repo.FindStock(ctx, input.ProductID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock")
		}

		existing, err := repo.FindOpenByProduct(ctx, userID, input.ProductID)
		if err != nil && !stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}

		total := input.Quantity
		if existing != nil {
			total += existing.Quantity
		}
		if stockRow.QuantityAvailable < total {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "cannot add more than quantity available")
		}

		if existing == nil {
			row := models.CartItem{UserID: userID, ProductID: input.ProductID, Quantity: input.Quantity}
			if err := repo.Create(ctx, &row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart item")
			}
			ack = &Ack{ID: row.ID, VersionNumber: row.VersionNumber}
			return nil
		}

		affected, err := repo.UpdateVersioned(ctx, existing.ID, existing.VersionNumber, map[string]any{
			"quantity": gorm.Expr("quantity + ?", input.Quantity),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging cart item")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart item was modified by another request")
		}
		ack = &Ack{ID: existing.ID, VersionNumber: existing.VersionNumber + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, userID, input.ID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}

		stockRow, err := repo.FindStock(ctx, current.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading stock")
		}
		if stockRow.QuantityAvailable < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "cannot request more than quantity available")
		}

		affected, err := repo.UpdateVersioned(ctx, input.ID, input.VersionNumber, map[string]any{
			"quantity": input.Quantity,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart item was modified by another request")
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

		if _, err := repo.FindByID(ctx, userID, id); err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
		}

		affected, err := repo.UpdateVersioned(ctx, id, version, map[string]any{
			"is_deleted": true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart item")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart item was modified by another request")
		}
		return nil
	})
}
