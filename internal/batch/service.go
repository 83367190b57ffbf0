package batch

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/internal/stock"
	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes batch administration for store owners. Every mutation keeps
// the sellable counter in step with the batch delta inside one transaction.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, query ListQuery) (pagination.Page[View], error)
	Create(ctx context.Context, userID uuid.UUID, input CreateBatchInput) (*Ack, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateBatchInput) (*Ack, error)
	Delete(ctx context.Context, userID uuid.UUID, batchID uuid.UUID, version int64) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the batch service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, query ListQuery) (pagination.Page[View], error) {
	var empty pagination.Page[View]

	sort, err := enums.ParseBatchSortKey(query.Sort)
	if err != nil {
		return empty, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	order, err := enums.ParseSortOrder(query.Order)
	if err != nil {
		return empty, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.requireOwnedProduct(ctx, s.repo, userID, query.ProductID); err != nil {
		return empty, err
	}

	page := pagination.Params{Offset: query.Offset, Fetch: query.Fetch}
	rows, total, err := s.repo.ListByProduct(ctx, query.ProductID, sort, order, page)
	if err != nil {
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing batches")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, View{
			ID:            row.ID,
			BatchNumber:   row.BatchNumber,
			QuantityTotal: row.QuantityTotal,
			QuantityLeft:  row.QuantityLeft,
			ArrivedOn:     row.ArrivedOn,
			ExpiredDate:   row.ExpiredDate,
			VersionNumber: row.VersionNumber,
		})
	}
	return pagination.NewPage(views, total, page), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateBatchInput) (*Ack, error) {
	if input.QuantityLeft > input.QuantityTotal {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity left cannot be more than total quantity")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireOwnedProduct(ctx, repo, userID, input.ProductID); err != nil {
			return err
		}

		row := models.ProductBatch{
			ProductID:     input.ProductID,
			BatchNumber:   input.BatchNumber,
			QuantityTotal: input.QuantityTotal,
			QuantityLeft:  input.QuantityLeft,
			ArrivedOn:     input.ArrivedOn,
			ExpiredDate:   input.ExpiredDate,
		}
		if err := repo.Create(ctx, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating batch")
		}

		if input.QuantityLeft > 0 {
			if err := stock.AdjustForBatchChange(ctx, tx, input.ProductID, input.QuantityLeft); err != nil {
				return err
			}
		}

		ack = &Ack{ID: row.ID, VersionNumber: row.VersionNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateBatchInput) (*Ack, error) {
	if input.QuantityLeft > input.QuantityTotal {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity left cannot be more than total quantity")
	}

	var ack *Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading batch")
		}

		if err := s.requireOwnedProduct(ctx, repo, userID, current.ProductID); err != nil {
			return err
		}

		affected, err := repo.UpdateVersioned(ctx, input.ID, input.VersionNumber, map[string]any{
			"batch_number":   input.BatchNumber,
			"quantity_total": input.QuantityTotal,
			"quantity_left":  input.QuantityLeft,
			"arrived_on":     input.ArrivedOn,
			"expired_date":   input.ExpiredDate,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating batch")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "batch was modified by another request")
		}

		if delta := input.QuantityLeft - current.QuantityLeft; delta != 0 {
			if err := stock.AdjustForBatchChange(ctx, tx, current.ProductID, delta); err != nil {
				return err
			}
		}

		ack = &Ack{ID: input.ID, VersionNumber: input.VersionNumber + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, batchID uuid.UUID, version int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, batchID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading batch")
		}

		if err := s.requireOwnedProduct(ctx, repo, userID, current.ProductID); err != nil {
			return err
		}

		affected, err := repo.UpdateVersioned(ctx, batchID, version, map[string]any{
			"is_deleted": true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting batch")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "batch was modified by another request")
		}

		if current.QuantityLeft > 0 {
			if err := stock.AdjustForBatchChange(ctx, tx, current.ProductID, -current.QuantityLeft); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) requireOwnedProduct(ctx context.Context, repo Repository, userID, productID uuid.UUID) error {
	product, err := repo.FindProductWithStore(ctx, productID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product.Store == nil || product.Store.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("product %s is not owned by the caller", productID))
	}
	return nil
}
