package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

type fixture struct {
	db     *gorm.DB
	svc    Service
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:store_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := models.User{LoginName: "seller", UserName: "Seller"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := NewService(NewRepository(db), logg)
	return &fixture{db: db, svc: svc, userID: user.ID}
}

func TestCreateThenGetStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.userID, CreateInput{Name: "Fresh Mart", DeliveryLeadDay: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ack.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", ack.VersionNumber)
	}

	view, err := f.svc.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Name != "Fresh Mart" || view.DeliveryLeadDay != 3 {
		t.Fatalf("unexpected store view: %+v", view)
	}
}

func TestCreateRejectsSecondStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.userID, CreateInput{Name: "First", DeliveryLeadDay: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := f.svc.Create(ctx, f.userID, CreateInput{Name: "Second", DeliveryLeadDay: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsZeroLeadDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.userID, CreateInput{Name: "Fresh Mart", DeliveryLeadDay: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStoreVersionChecked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.userID, CreateInput{Name: "Fresh Mart", DeliveryLeadDay: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(ctx, f.userID, UpdateInput{
		Name:            "Fresher Mart",
		DeliveryLeadDay: 5,
		VersionNumber:   ack.VersionNumber,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.VersionNumber != ack.VersionNumber+1 {
		t.Fatalf("expected version bump, got %d", updated.VersionNumber)
	}

	_, err = f.svc.Update(ctx, f.userID, UpdateInput{
		Name:            "Stale Mart",
		DeliveryLeadDay: 2,
		VersionNumber:   ack.VersionNumber,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}

	view, err := f.svc.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Name != "Fresher Mart" || view.DeliveryLeadDay != 5 {
		t.Fatalf("stale update must not apply: %+v", view)
	}
}

func TestGetWithoutStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.userID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
