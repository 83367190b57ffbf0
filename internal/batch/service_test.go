package batch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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

type serviceFixture struct {
	db      *gorm.DB
	svc     Service
	ownerID uuid.UUID
	product uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := "file:batchsvc_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := models.User{LoginName: "owner", UserName: "Owner"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	store := models.Store{UserID: owner.ID, Name: "Fresh Mart", DeliveryLeadDay: 3}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	uom := models.UnitOfMeasure{Name: "Piece", ShortName: "pc"}
	if err := db.Create(&uom).Error; err != nil {
		t.Fatalf("seed uom: %v", err)
	}
	product := models.Product{StoreID: store.ID, Name: "Milk", SKU: "MLK-1", UnitOfMeasureID: uom.ID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Create(&models.ProductStock{ProductID: product.ID, QuantityAvailable: 0}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := NewService(NewRepository(db), gormTxRunner{db: db}, logg)
	return &serviceFixture{db: db, svc: svc, ownerID: owner.ID, product: product.ID}
}

func (f *serviceFixture) stock(t *testing.T) models.ProductStock {
	t.Helper()
	var row models.ProductStock
	if err := f.db.First(&row, "product_id = ?", f.product).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	return row
}

func TestCreateBatchAdjustsAvailability(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.ownerID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  30,
		ArrivedOn:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if ack.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", ack.VersionNumber)
	}
	if got := f.stock(t).QuantityAvailable; got != 30 {
		t.Fatalf("expected availability 30, got %d", got)
	}
}

func TestCreateBatchRejectsLeftAboveTotal(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.ownerID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 10,
		QuantityLeft:  11,
		ArrivedOn:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBatchRejectsForeignProduct(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	stranger := models.User{LoginName: "stranger", UserName: "Stranger"}
	if err := f.db.Create(&stranger).Error; err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	_, err := f.svc.Create(ctx, stranger.ID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 5,
		QuantityLeft:  5,
		ArrivedOn:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if got := f.stock(t).QuantityAvailable; got != 0 {
		t.Fatalf("availability changed on rejected create: %d", got)
	}
}

func TestUpdateBatchAppliesDelta(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	arrived := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ack, err := f.svc.Create(ctx, f.ownerID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  30,
		ArrivedOn:     arrived,
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	updated, err := f.svc.Update(ctx, f.ownerID, UpdateBatchInput{
		ID:            ack.ID,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  25,
		ArrivedOn:     arrived,
		VersionNumber: ack.VersionNumber,
	})
	if err != nil {
		t.Fatalf("update batch: %v", err)
	}
	if updated.VersionNumber != 2 {
		t.Fatalf("expected version 2, got %d", updated.VersionNumber)
	}
	if got := f.stock(t).QuantityAvailable; got != 25 {
		t.Fatalf("expected availability 25, got %d", got)
	}
}

func TestUpdateBatchStaleVersionConflicts(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	arrived := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ack, err := f.svc.Create(ctx, f.ownerID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  30,
		ArrivedOn:     arrived,
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	_, err = f.svc.Update(ctx, f.ownerID, UpdateBatchInput{
		ID:            ack.ID,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  20,
		ArrivedOn:     arrived,
		VersionNumber: ack.VersionNumber + 5,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got := f.stock(t).QuantityAvailable; got != 30 {
		t.Fatalf("availability changed on conflicted update: %d", got)
	}
}

func TestDeleteBatchReturnsQuantityLeft(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.ownerID, CreateBatchInput{
		ProductID:     f.product,
		BatchNumber:   "B-001",
		QuantityTotal: 30,
		QuantityLeft:  12,
		ArrivedOn:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	if err := f.svc.Delete(ctx, f.ownerID, ack.ID, ack.VersionNumber); err != nil {
		t.Fatalf("delete batch: %v", err)
	}
	if got := f.stock(t).QuantityAvailable; got != 0 {
		t.Fatalf("expected availability back to 0, got %d", got)
	}

	var row models.ProductBatch
	if err := f.db.First(&row, "id = ?", ack.ID).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if !row.IsDeleted {
		t.Fatal("expected batch to be soft deleted")
	}
	if row.VersionNumber != ack.VersionNumber+1 {
		t.Fatalf("expected version bump, got %d", row.VersionNumber)
	}
}

func TestListBatchesSortedByExpiry(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()
	arrived := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	later := arrived.AddDate(0, 2, 0)
	earlier := arrived.AddDate(0, 1, 0)
	for _, in := range []CreateBatchInput{
		{ProductID: f.product, BatchNumber: "LATE", QuantityTotal: 10, QuantityLeft: 10, ArrivedOn: arrived, ExpiredDate: &later},
		{ProductID: f.product, BatchNumber: "EARLY", QuantityTotal: 10, QuantityLeft: 10, ArrivedOn: arrived, ExpiredDate: &earlier},
	} {
		if _, err := f.svc.Create(ctx, f.ownerID, in); err != nil {
			t.Fatalf("create batch %s: %v", in.BatchNumber, err)
		}
	}

	page, err := f.svc.List(ctx, f.ownerID, ListQuery{
		ProductID: f.product,
		Sort:      "expiredon",
		Order:     "asc",
		Offset:    0,
		Fetch:     10,
	})
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	if page.TotalCount != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].BatchNumber != "EARLY" || page.Items[1].BatchNumber != "LATE" {
		t.Fatalf("unexpected order: %s, %s", page.Items[0].BatchNumber, page.Items[1].BatchNumber)
	}
}

func TestListBatchesRejectsUnknownSortKey(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx, f.ownerID, ListQuery{
		ProductID: f.product,
		Sort:      "price; DROP TABLE product_batches",
		Order:     "asc",
		Fetch:     10,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
