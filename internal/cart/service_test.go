package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	pkgerrors "github.com/loosihong/RAiD-Backend/pkg/errors"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	db      *gorm.DB
	svc     Service
	userID  uuid.UUID
	product models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	buyer := models.User{LoginName: "buyer", UserName: "Buyer"}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("seed buyer: %v", err)
	}
	owner := models.User{LoginName: "owner", UserName: "Owner"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	store := models.Store{UserID: owner.ID, Name: "Fresh Mart", DeliveryLeadDay: 2}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	uom := models.UnitOfMeasure{Name: "Piece", ShortName: "pc"}
	if err := db.Create(&uom).Error; err != nil {
		t.Fatalf("seed uom: %v", err)
	}
	product := models.Product{
		StoreID:         store.ID,
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: uom.ID,
		UnitPrice:       decimal.NewFromInt(4),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Create(&models.ProductStock{ProductID: product.ID, QuantityAvailable: 10}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := NewService(NewRepository(db), gormTxRunner{db: db}, logg)
	return &fixture{db: db, svc: svc, userID: buyer.ID, product: product}
}

func TestAddCreatesOpenItem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if ack.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", ack.VersionNumber)
	}

	qty, err := f.svc.QuantityForProduct(ctx, f.userID, f.product.ID)
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if qty != 3 {
		t.Fatalf("expected quantity 3, got %d", qty)
	}
}

func TestAddMergesIntoExistingItem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 4})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected merge into the same cart item")
	}
	if second.VersionNumber != first.VersionNumber+1 {
		t.Fatalf("expected version bump, got %d", second.VersionNumber)
	}

	views, err := f.svc.List(ctx, f.userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Quantity != 7 {
		t.Fatalf("unexpected cart contents: %+v", views)
	}
}

func TestAddRejectsBeyondAvailability(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 8}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// 8 in cart + 3 more exceeds the 10 available.
	_, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
}

func TestUpdateQuantityVersionChecked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := f.svc.Update(ctx, f.userID, UpdateInput{ID: ack.ID, Quantity: 5, VersionNumber: ack.VersionNumber})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.VersionNumber != ack.VersionNumber+1 {
		t.Fatalf("expected version bump, got %d", updated.VersionNumber)
	}

	// Stale version must affect zero rows and surface as a conflict.
	_, err = f.svc.Update(ctx, f.userID, UpdateInput{ID: ack.ID, Quantity: 1, VersionNumber: ack.VersionNumber})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}

	views, err := f.svc.List(ctx, f.userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if views[0].Quantity != 5 {
		t.Fatalf("quantity changed by stale update: %+v", views[0])
	}
}

func TestUpdateRejectsBeyondAvailability(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err = f.svc.Update(ctx, f.userID, UpdateInput{ID: ack.ID, Quantity: 11, VersionNumber: ack.VersionNumber})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
}

func TestDeleteSoftDeletes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := f.svc.Delete(ctx, f.userID, ack.ID, ack.VersionNumber); err != nil {
		t.Fatalf("delete: %v", err)
	}

	views, err := f.svc.List(ctx, f.userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty cart, got %+v", views)
	}

	var row models.CartItem
	if err := f.db.First(&row, "id = ?", ack.ID).Error; err != nil {
		t.Fatalf("load cart item: %v", err)
	}
	if !row.IsDeleted || row.VersionNumber != ack.VersionNumber+1 {
		t.Fatalf("unexpected cart item state: %+v", row)
	}
}

func TestDeleteForeignItemNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	err = f.svc.Delete(ctx, uuid.New(), ack.ID, ack.VersionNumber)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListIncludesProductContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, AddInput{ProductID: f.product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	views, err := f.svc.List(ctx, f.userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 item, got %d", len(views))
	}
	got := views[0]
	if got.ProductName != "Milk" || got.StoreName != "Fresh Mart" || got.UnitShortName != "pc" {
		t.Fatalf("missing product context: %+v", got)
	}
	if got.QuantityAvailable != 10 || !got.UnitPrice.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("missing stock or price context: %+v", got)
	}
}
