// Package store manages seller storefronts.
package store

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

// CreateInput opens a store for the caller.
type CreateInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	DeliveryLeadDay int    `json:"deliveryLeadDay" validate:"gte=1"`
}

// UpdateInput edits the caller's store.
type UpdateInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	DeliveryLeadDay int    `json:"deliveryLeadDay" validate:"gte=1"`
	VersionNumber   int64  `json:"versionNumber" validate:"gte=1"`
}

// Ack acknowledges a store mutation.
type Ack struct {
	ID            uuid.UUID `json:"id"`
	VersionNumber int64     `json:"versionNumber"`
}

// View is the store read model.
type View struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DeliveryLeadDay int       `json:"deliveryLeadDay"`
	VersionNumber   int64     `json:"versionNumber"`
}

// Repository is the persistence surface for stores.
type Repository interface {
	FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Store, error)
	Create(ctx context.Context, row *models.Store) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a store repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Store, error) {
	var row models.Store
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *models.Store) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error) {
	updates["version_number"] = gorm.Expr("version_number + 1")
	result := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ? AND version_number = ? AND is_deleted = ?", id, version, false).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Service manages the caller's storefront. Each user owns at most one store.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Ack, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the store service.
func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	row, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "caller has no store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}
	return &View{
		ID:              row.ID,
		Name:            row.Name,
		DeliveryLeadDay: row.DeliveryLeadDay,
		VersionNumber:   row.VersionNumber,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Ack, error) {
	if input.DeliveryLeadDay < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery lead day must be at least 1")
	}

	if _, err := s.repo.FindByOwner(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caller already owns a store")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}

	row := models.Store{UserID: userID, Name: input.Name, DeliveryLeadDay: input.DeliveryLeadDay}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating store")
	}
	return &Ack{ID: row.ID, VersionNumber: row.VersionNumber}, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Ack, error) {
	if input.DeliveryLeadDay < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery lead day must be at least 1")
	}

	row, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "caller has no store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}

	affected, err := s.repo.UpdateVersioned(ctx, row.ID, input.VersionNumber, map[string]any{
		"name":              input.Name,
		"delivery_lead_day": input.DeliveryLeadDay,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating store")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store was modified by another request")
	}
	return &Ack{ID: row.ID, VersionNumber: input.VersionNumber + 1}, nil
}
