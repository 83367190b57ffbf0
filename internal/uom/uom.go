// Package uom serves the unit-of-measure lookup list.
package uom

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
)

// SelectionItem is one entry in the unit selection list.
type SelectionItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
}

// Repository is the persistence surface for units of measure.
type Repository interface {
	ListAll(ctx context.Context) ([]models.UnitOfMeasure, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a unit-of-measure repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]models.UnitOfMeasure, error) {
	var rows []models.UnitOfMeasure
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Service exposes the selection list.
type Service interface {
	Selection(ctx context.Context) ([]SelectionItem, error)
}

type service struct {
	repo Repository
}

// NewService wires the unit-of-measure service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Selection(ctx context.Context) ([]SelectionItem, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing units of measure")
	}

	items := make([]SelectionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, SelectionItem{ID: row.ID, Name: row.Name, ShortName: row.ShortName})
	}
	return items, nil
}
