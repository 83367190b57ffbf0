// Package models holds the persisted entities shared by every repository.
package models

import "github.com/google/uuid"

// All returns every model in dependency order, used by sqlite test migrations.
func All() []any {
	return []any{
		&User{},
		&Store{},
		&UnitOfMeasure{},
		&Product{},
		&ProductStock{},
		&ProductBatch{},
		&CartItem{},
		&Purchase{},
		&PurchaseItem{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func ensureVersion(version *int64) {
	if *version <= 0 {
		*version = 1
	}
}
