package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/pkg/db/models"
	"github.com/loosihong/RAiD-Backend/pkg/enums"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:purchaserepo_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedPurchase(t *testing.T, db *gorm.DB, userID, storeID uuid.UUID, status enums.PurchaseStatus) models.Purchase {
	t.Helper()

	row := models.Purchase{
		UserID:                userID,
		StoreID:               storeID,
		PurchaseStatusCode:    status,
		TotalPrice:            decimal.NewFromInt(10),
		EstimatedDeliveryDate: time.Now().AddDate(0, 0, 3),
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestCountInStateScopesByActor(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	buyer := models.User{LoginName: "buyer", UserName: "Buyer"}
	owner := models.User{LoginName: "owner", UserName: "Owner"}
	require.NoError(t, db.Create(&buyer).Error)
	require.NoError(t, db.Create(&owner).Error)

	store := models.Store{UserID: owner.ID, Name: "Mart", DeliveryLeadDay: 2}
	require.NoError(t, db.Create(&store).Error)

	p1 := seedPurchase(t, db, buyer.ID, store.ID, enums.PurchaseStatusOrdered)
	p2 := seedPurchase(t, db, buyer.ID, store.ID, enums.PurchaseStatusOrdered)
	ids := []uuid.UUID{p1.ID, p2.ID}

	count, err := repo.CountInState(ctx, ActorStoreOwner, owner.ID, ids, enums.PurchaseStatusOrdered)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The buyer is not the store owner, so owner scoping finds nothing for them.
	count, err = repo.CountInState(ctx, ActorStoreOwner, buyer.ID, ids, enums.PurchaseStatusOrdered)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountInState(ctx, ActorCustomer, buyer.ID, ids, enums.PurchaseStatusOrdered)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBulkTransitionOnlyMovesMatchingRows(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	buyer := models.User{LoginName: "buyer", UserName: "Buyer"}
	owner := models.User{LoginName: "owner", UserName: "Owner"}
	require.NoError(t, db.Create(&buyer).Error)
	require.NoError(t, db.Create(&owner).Error)

	store := models.Store{UserID: owner.ID, Name: "Mart", DeliveryLeadDay: 2}
	require.NoError(t, db.Create(&store).Error)

	pending := seedPurchase(t, db, buyer.ID, store.ID, enums.PurchaseStatusPendingPayment)
	ordered := seedPurchase(t, db, buyer.ID, store.ID, enums.PurchaseStatusOrdered)

	affected, err := repo.BulkTransition(ctx, ActorCustomer, buyer.ID,
		[]uuid.UUID{pending.ID, ordered.ID},
		enums.PurchaseStatusPendingPayment,
		map[string]any{"purchase_status_code": enums.PurchaseStatusOrdered})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var moved models.Purchase
	require.NoError(t, db.First(&moved, "id = ?", pending.ID).Error)
	assert.Equal(t, enums.PurchaseStatusOrdered, moved.PurchaseStatusCode)
	assert.Equal(t, pending.VersionNumber+1, moved.VersionNumber)

	var untouched models.Purchase
	require.NoError(t, db.First(&untouched, "id = ?", ordered.ID).Error)
	assert.Equal(t, ordered.VersionNumber, untouched.VersionNumber)
}

func TestFindOpenCartItemsSkipsClosedAndForeign(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	buyer := models.User{LoginName: "buyer", UserName: "Buyer"}
	other := models.User{LoginName: "other", UserName: "Other"}
	owner := models.User{LoginName: "owner", UserName: "Owner"}
	require.NoError(t, db.Create(&buyer).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&owner).Error)

	store := models.Store{UserID: owner.ID, Name: "Mart", DeliveryLeadDay: 2}
	require.NoError(t, db.Create(&store).Error)
	uom := models.UnitOfMeasure{Name: "Piece", ShortName: "pc"}
	require.NoError(t, db.Create(&uom).Error)
	product := models.Product{
		StoreID:         store.ID,
		Name:            "Milk",
		SKU:             "MLK-1",
		UnitOfMeasureID: uom.ID,
		UnitPrice:       decimal.NewFromInt(4),
	}
	require.NoError(t, db.Create(&product).Error)

	open := models.CartItem{UserID: buyer.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&open).Error)

	closedItemID := uuid.New()
	closed := models.CartItem{UserID: buyer.ID, ProductID: product.ID, Quantity: 1, PurchaseItemID: &closedItemID}
	require.NoError(t, db.Create(&closed).Error)

	foreign := models.CartItem{UserID: other.ID, ProductID: product.ID, Quantity: 3}
	require.NoError(t, db.Create(&foreign).Error)

	rows, err := repo.FindOpenCartItems(ctx, buyer.ID, []uuid.UUID{open.ID, closed.ID, foreign.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open.ID, rows[0].ID)
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Milk", rows[0].Product.Name)
}
