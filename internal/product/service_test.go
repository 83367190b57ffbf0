package product

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
	ownerID uuid.UUID
	storeID uuid.UUID
	uomID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:product_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	store := models.Store{UserID: owner.ID, Name: "Fresh Mart", DeliveryLeadDay: 2}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	uom := models.UnitOfMeasure{Name: "Piece", ShortName: "pc"}
	if err := db.Create(&uom).Error; err != nil {
		t.Fatalf("seed uom: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc := NewService(NewRepository(db), gormTxRunner{db: db}, logg)
	return &fixture{db: db, svc: svc, ownerID: owner.ID, storeID: store.ID, uomID: uom.ID}
}

func TestCreateProductAlsoCreatesStockRow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.ownerID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var stockRow models.ProductStock
	if err := f.db.First(&stockRow, "product_id = ?", ack.ID).Error; err != nil {
		t.Fatalf("expected stock row: %v", err)
	}
	if stockRow.QuantityAvailable != 0 || stockRow.QuantitySold != 0 {
		t.Fatalf("expected zeroed stock row: %+v", stockRow)
	}
}

func TestCreateProductRequiresStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	stranger := models.User{LoginName: "stranger", UserName: "Stranger"}
	if err := f.db.Create(&stranger).Error; err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	_, err := f.svc.Create(ctx, stranger.ID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(4),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductRejectsUnknownUnit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.ownerID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: uuid.New(),
		UnitPrice:       decimal.NewFromInt(4),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProductVersionChecked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.ownerID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(ctx, f.ownerID, UpdateInput{
		ID:              ack.ID,
		Name:            "Whole Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(5),
		VersionNumber:   ack.VersionNumber,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.VersionNumber != ack.VersionNumber+1 {
		t.Fatalf("expected version bump, got %d", updated.VersionNumber)
	}

	_, err = f.svc.Update(ctx, f.ownerID, UpdateInput{
		ID:              ack.ID,
		Name:            "Skim Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(3),
		VersionNumber:   ack.VersionNumber,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}
}

func TestDeleteProductHidesFromSearch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.svc.Create(ctx, f.ownerID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, f.ownerID, ack.ID, ack.VersionNumber); err != nil {
		t.Fatalf("delete: %v", err)
	}

	page, err := f.svc.Search(ctx, SearchQuery{Keyword: "milk", Sort: "relevance", Order: "asc", Fetch: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("expected deleted product hidden, got %+v", page)
	}

	if _, err := f.svc.Get(ctx, ack.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestSearchSortsByPrice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []struct {
		name  string
		price int64
	}{
		{"Cheap Juice", 2},
		{"Mid Juice", 5},
		{"Pricey Juice", 9},
	} {
		if _, err := f.svc.Create(ctx, f.ownerID, CreateInput{
			Name:            p.name,
			SKU:             p.name,
			UnitOfMeasureID: f.uomID,
			UnitPrice:       decimal.NewFromInt(p.price),
		}); err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
	}

	page, err := f.svc.Search(ctx, SearchQuery{Keyword: "juice", Sort: "price", Order: "desc", Fetch: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected 3 products, got %d", page.TotalCount)
	}
	if page.Items[0].Name != "Pricey Juice" || page.Items[2].Name != "Cheap Juice" {
		t.Fatalf("unexpected price order: %+v", page.Items)
	}
}

func TestSearchRejectsUnknownSortKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Search(ctx, SearchQuery{Keyword: "", Sort: "name; DROP TABLE products", Order: "asc", Fetch: 10})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListOwnedScopedToStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.ownerID, CreateInput{
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: f.uomID,
		UnitPrice:       decimal.NewFromInt(4),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	other := models.User{LoginName: "other", UserName: "Other"}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}
	otherStore := models.Store{UserID: other.ID, Name: "Other Mart", DeliveryLeadDay: 1}
	if err := f.db.Create(&otherStore).Error; err != nil {
		t.Fatalf("seed other store: %v", err)
	}

	mine, err := f.svc.ListOwned(ctx, f.ownerID, 0, 10)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if mine.TotalCount != 1 {
		t.Fatalf("expected 1 owned product, got %d", mine.TotalCount)
	}

	theirs, err := f.svc.ListOwned(ctx, other.ID, 0, 10)
	if err != nil {
		t.Fatalf("list owned for other: %v", err)
	}
	if theirs.TotalCount != 0 {
		t.Fatalf("expected no products for other store, got %d", theirs.TotalCount)
	}
}
