package purchase

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loosihong/RAiD-Backend/internal/batch"
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

// Service drives checkout and the purchase lifecycle.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) ([]Ack, error)
	Pay(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error)
	Confirm(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error)
	Send(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error)
	Delivered(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error)
	Receive(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error)
	Active(ctx context.Context, userID uuid.UUID) ([]View, error)
	History(ctx context.Context, userID uuid.UUID, query HistoryQuery) (pagination.Page[HistoryItem], error)
	StorePurchases(ctx context.Context, userID uuid.UUID, query StoreQuery) (pagination.Page[View], error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the purchase service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg, now: time.Now}
}

// insufficientItem names one cart item the advisory pre-check rejected.
type insufficientItem struct {
	CartItemID  uuid.UUID `json:"cartItemId"`
	ProductName string    `json:"productName"`
	Requested   int64     `json:"requested"`
	Available   int64     `json:"available"`
}

// Create converts the caller's open cart items into one purchase per store.
// The whole sequence runs in a single transaction; any failure leaves no
// stock decrement, batch change, purchase row or cart closure behind.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) ([]Ack, error) {
	if len(input.CartItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item ids are required")
	}

	var acks []Ack
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		items, err := repo.FindOpenCartItems(ctx, userID, input.CartItemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
		}
		if len(items) != len(input.CartItemIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "one or more cart items are missing, already purchased or deleted")
		}

		// Advisory pre-check so the caller gets the full list of short
		// items in one response. The ledger re-checks at write time.
		var short []insufficientItem
		for _, item := range items {
			if item.Product == nil || item.Product.Stock == nil || item.Product.Store == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("cart item %s has incomplete product data", item.ID))
			}
			if item.Quantity > item.Product.Stock.QuantityAvailable {
				short = append(short, insufficientItem{
					CartItemID:  item.ID,
					ProductName: item.Product.Name,
					Requested:   item.Quantity,
					Available:   item.Product.Stock.QuantityAvailable,
				})
			}
		}
		if len(short) > 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for some cart items").WithDetails(short)
		}

		// Reserve and deplete batches per product before any purchase row
		// exists, so a stock race aborts the transaction early.
		for _, item := range items {
			if err := stock.Reserve(ctx, tx, stock.ReservationRequest{ProductID: item.ProductID, Quantity: item.Quantity}); err != nil {
				return err
			}
			result, err := batch.Allocate(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if result.Shortfall > 0 {
				wctx := s.logg.WithFields(ctx, map[string]any{
					"product_id": item.ProductID.String(),
					"shortfall":  result.Shortfall,
				})
				s.logg.Warn(wctx, "batch records could not cover reserved quantity")
			}
		}

		// One purchase per store, in first-seen order.
		storeOrder := make([]uuid.UUID, 0, len(items))
		groups := make(map[uuid.UUID][]models.CartItem)
		for _, item := range items {
			storeID := item.Product.StoreID
			if _, seen := groups[storeID]; !seen {
				storeOrder = append(storeOrder, storeID)
			}
			groups[storeID] = append(groups[storeID], item)
		}

		now := s.now()
		for _, storeID := range storeOrder {
			group := groups[storeID]

			total := decimal.Zero
			for _, item := range group {
				total = total.Add(item.Product.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
			}

			leadDay := group[0].Product.Store.DeliveryLeadDay
			row := models.Purchase{
				UserID:                userID,
				StoreID:               storeID,
				PurchaseStatusCode:    enums.PurchaseStatusPendingPayment,
				TotalPrice:            total,
				EstimatedDeliveryDate: now.AddDate(0, 0, leadDay),
			}
			if err := repo.CreatePurchase(ctx, &row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating purchase")
			}

			lines := make([]models.PurchaseItem, 0, len(group))
			for _, item := range group {
				lines = append(lines, models.PurchaseItem{
					PurchaseID: row.ID,
					ProductID:  item.ProductID,
					Quantity:   item.Quantity,
					UnitPrice:  item.Product.UnitPrice,
				})
			}
			if err := repo.CreatePurchaseItems(ctx, lines); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating purchase items")
			}

			// Close each cart item against the version loaded at the top of
			// the transaction; a concurrent edit surfaces as a conflict.
			for i, item := range group {
				affected, err := repo.CloseCartItem(ctx, item.ID, item.VersionNumber, lines[i].ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing cart item")
				}
				if affected == 0 {
					return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cart item %s was modified during checkout", item.ID))
				}
			}

			acks = append(acks, Ack{ID: row.ID, VersionNumber: row.VersionNumber})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acks, nil
}

func (s *service) Pay(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error) {
	return s.transition(ctx, userID, transitionPay, input)
}

func (s *service) Confirm(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error) {
	return s.transition(ctx, userID, transitionConfirm, input)
}

func (s *service) Send(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error) {
	return s.transition(ctx, userID, transitionSend, input)
}

func (s *service) Delivered(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error) {
	return s.transition(ctx, userID, transitionDelivered, input)
}

func (s *service) Receive(ctx context.Context, userID uuid.UUID, input TransitionInput) ([]StatusView, error) {
	return s.transition(ctx, userID, transitionReceive, input)
}

// transition applies one forward lifecycle step to every named purchase, all
// or nothing. The pre-count proves every row is in the expected state and
// owned by the actor; the bulk update re-checks the same predicate and a
// rows-affected mismatch is a conflict.
func (s *service) transition(ctx context.Context, userID uuid.UUID, t Transition, input TransitionInput) ([]StatusView, error) {
	ids := input.PurchaseIDs
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase ids are required")
	}

	var views []StatusView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountInState(ctx, t.Actor, userID, ids, t.From)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking purchases")
		}
		if count != int64(len(ids)) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("every purchase must be owned by the caller and in status %s", t.From.DisplayName()))
		}

		updates := map[string]any{"purchase_status_code": t.To}
		now := s.now()
		if t.RecomputeDelivery {
			store, err := repo.FindStoreByOwner(ctx, userID)
			if err != nil {
				if stdErrors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "caller has no store")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
			}
			updates["estimated_delivery_date"] = now.AddDate(0, 0, store.DeliveryLeadDay)
		}
		if t.StampDelivered {
			updates["delivered_date_time"] = now
		}

		affected, err := repo.BulkTransition(ctx, t.Actor, userID, ids, t.From, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating purchases")
		}
		if affected != int64(len(ids)) {
			return pkgerrors.New(pkgerrors.CodeConflict, "one or more purchases changed state during the update")
		}

		rows, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading purchases")
		}
		views = make([]StatusView, 0, len(rows))
		for _, row := range rows {
			views = append(views, StatusView{
				ID:            row.ID,
				StatusCode:    row.PurchaseStatusCode.String(),
				StatusName:    row.PurchaseStatusCode.DisplayName(),
				VersionNumber: row.VersionNumber,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *service) Active(ctx context.Context, userID uuid.UUID) ([]View, error) {
	rows, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing active purchases")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, query HistoryQuery) (pagination.Page[HistoryItem], error) {
	var empty pagination.Page[HistoryItem]

	page := pagination.Params{Offset: query.Offset, Fetch: query.Fetch}
	rows, total, err := s.repo.ListHistory(ctx, userID, query.Keyword, page)
	if err != nil {
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing purchase history")
	}

	items := make([]HistoryItem, 0, len(rows))
	for _, row := range rows {
		item := HistoryItem{
			ID:          row.ID,
			ProductID:   row.ProductID,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
			PurchasedOn: row.CreatedAt,
		}
		if row.Product != nil {
			item.ProductName = row.Product.Name
			item.StoreID = row.Product.StoreID
			if row.Product.Store != nil {
				item.StoreName = row.Product.Store.Name
			}
			if row.Product.UnitOfMeasure != nil {
				item.UnitShortName = row.Product.UnitOfMeasure.ShortName
			}
		}
		items = append(items, item)
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *service) StorePurchases(ctx context.Context, userID uuid.UUID, query StoreQuery) (pagination.Page[View], error) {
	var empty pagination.Page[View]

	store, err := s.repo.FindStoreByOwner(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return empty, pkgerrors.New(pkgerrors.CodeValidation, "caller has no store")
		}
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}

	var status enums.PurchaseStatus
	if query.StatusCode != "" {
		parsed, err := enums.ParsePurchaseStatus(query.StatusCode)
		if err != nil {
			return empty, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	page := pagination.Params{Offset: query.Offset, Fetch: query.Fetch}
	rows, total, err := s.repo.ListForStore(ctx, store.ID, status, page)
	if err != nil {
		return empty, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing store purchases")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return pagination.NewPage(views, total, page), nil
}

func toView(row models.Purchase) View {
	view := View{
		ID:                    row.ID,
		StoreID:               row.StoreID,
		TotalPrice:            row.TotalPrice,
		PurchasedOn:           row.CreatedAt,
		EstimatedDeliveryDate: row.EstimatedDeliveryDate,
		DeliveredDateTime:     row.DeliveredDateTime,
		StatusCode:            row.PurchaseStatusCode.String(),
		StatusName:            row.PurchaseStatusCode.DisplayName(),
		Items:                 make([]ItemView, 0, len(row.Items)),
		VersionNumber:         row.VersionNumber,
	}
	if row.Store != nil {
		view.StoreName = row.Store.Name
	}
	for _, line := range row.Items {
		item := ItemView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
			if line.Product.UnitOfMeasure != nil {
				item.UnitShortName = line.Product.UnitOfMeasure.ShortName
			}
		}
		view.Items = append(view.Items, item)
	}
	return view
}
