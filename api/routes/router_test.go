package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/loosihong/RAiD-Backend/internal/auth"
	batchsvc "github.com/loosihong/RAiD-Backend/internal/batch"
	cartsvc "github.com/loosihong/RAiD-Backend/internal/cart"
	productsvc "github.com/loosihong/RAiD-Backend/internal/product"
	purchasesvc "github.com/loosihong/RAiD-Backend/internal/purchase"
	storesvc "github.com/loosihong/RAiD-Backend/internal/store"
	uomsvc "github.com/loosihong/RAiD-Backend/internal/uom"
	pkgAuth "github.com/loosihong/RAiD-Backend/pkg/auth"
	"github.com/loosihong/RAiD-Backend/pkg/config"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
	"github.com/loosihong/RAiD-Backend/pkg/pagination"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.LoginInput) (*authsvc.LoginResult, error) {
	return &authsvc.LoginResult{Token: "token"}, nil
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

func (stubAuthService) Me(context.Context, uuid.UUID) (*authsvc.UserView, error) {
	return &authsvc.UserView{}, nil
}

type stubCartService struct{}

func (stubCartService) List(context.Context, uuid.UUID) ([]cartsvc.View, error) {
	return []cartsvc.View{}, nil
}

func (stubCartService) QuantityForProduct(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubCartService) Add(context.Context, uuid.UUID, cartsvc.AddInput) (*cartsvc.Ack, error) {
	return &cartsvc.Ack{}, nil
}

func (stubCartService) Update(context.Context, uuid.UUID, cartsvc.UpdateInput) (*cartsvc.Ack, error) {
	return &cartsvc.Ack{}, nil
}

func (stubCartService) Delete(context.Context, uuid.UUID, uuid.UUID, int64) error {
	return nil
}

type stubPurchaseService struct{}

func (stubPurchaseService) Create(context.Context, uuid.UUID, purchasesvc.CreateInput) ([]purchasesvc.Ack, error) {
	return []purchasesvc.Ack{}, nil
}

func (stubPurchaseService) Pay(context.Context, uuid.UUID, purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error) {
	return []purchasesvc.StatusView{}, nil
}

func (stubPurchaseService) Confirm(context.Context, uuid.UUID, purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error) {
	return []purchasesvc.StatusView{}, nil
}

func (stubPurchaseService) Send(context.Context, uuid.UUID, purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error) {
	return []purchasesvc.StatusView{}, nil
}

func (stubPurchaseService) Delivered(context.Context, uuid.UUID, purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error) {
	return []purchasesvc.StatusView{}, nil
}

func (stubPurchaseService) Receive(context.Context, uuid.UUID, purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error) {
	return []purchasesvc.StatusView{}, nil
}

func (stubPurchaseService) Active(context.Context, uuid.UUID) ([]purchasesvc.View, error) {
	return []purchasesvc.View{}, nil
}

func (stubPurchaseService) History(context.Context, uuid.UUID, purchasesvc.HistoryQuery) (pagination.Page[purchasesvc.HistoryItem], error) {
	return pagination.Page[purchasesvc.HistoryItem]{Items: []purchasesvc.HistoryItem{}}, nil
}

func (stubPurchaseService) StorePurchases(context.Context, uuid.UUID, purchasesvc.StoreQuery) (pagination.Page[purchasesvc.View], error) {
	return pagination.Page[purchasesvc.View]{Items: []purchasesvc.View{}}, nil
}

type stubProductService struct{}

func (stubProductService) Search(context.Context, productsvc.SearchQuery) (pagination.Page[productsvc.View], error) {
	return pagination.Page[productsvc.View]{Items: []productsvc.View{}}, nil
}

func (stubProductService) Get(context.Context, uuid.UUID) (*productsvc.View, error) {
	return &productsvc.View{}, nil
}

func (stubProductService) ListOwned(context.Context, uuid.UUID, int, int) (pagination.Page[productsvc.View], error) {
	return pagination.Page[productsvc.View]{Items: []productsvc.View{}}, nil
}

func (stubProductService) Create(context.Context, uuid.UUID, productsvc.CreateInput) (*productsvc.Ack, error) {
	return &productsvc.Ack{}, nil
}

func (stubProductService) Update(context.Context, uuid.UUID, productsvc.UpdateInput) (*productsvc.Ack, error) {
	return &productsvc.Ack{}, nil
}

func (stubProductService) Delete(context.Context, uuid.UUID, uuid.UUID, int64) error {
	return nil
}

type stubBatchService struct{}

func (stubBatchService) List(context.Context, uuid.UUID, batchsvc.ListQuery) (pagination.Page[batchsvc.View], error) {
	return pagination.Page[batchsvc.View]{Items: []batchsvc.View{}}, nil
}

func (stubBatchService) Create(context.Context, uuid.UUID, batchsvc.CreateBatchInput) (*batchsvc.Ack, error) {
	return &batchsvc.Ack{}, nil
}

func (stubBatchService) Update(context.Context, uuid.UUID, batchsvc.UpdateBatchInput) (*batchsvc.Ack, error) {
	return &batchsvc.Ack{}, nil
}

func (stubBatchService) Delete(context.Context, uuid.UUID, uuid.UUID, int64) error {
	return nil
}

type stubStoreService struct{}

func (stubStoreService) Get(context.Context, uuid.UUID) (*storesvc.View, error) {
	return &storesvc.View{}, nil
}

func (stubStoreService) Create(context.Context, uuid.UUID, storesvc.CreateInput) (*storesvc.Ack, error) {
	return &storesvc.Ack{}, nil
}

func (stubStoreService) Update(context.Context, uuid.UUID, storesvc.UpdateInput) (*storesvc.Ack, error) {
	return &storesvc.Ack{}, nil
}

type stubUOMService struct{}

func (stubUOMService) Selection(context.Context) ([]uomsvc.SelectionItem, error) {
	return []uomsvc.SelectionItem{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		Session: config.SessionConfig{
			Secret:            "router-test-secret",
			Issuer:            "raid-test",
			ExpirationMinutes: 5,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(testConfig(), logg, nil, nil, stubSessionChecker{}, nil, Services{
		Auth:     stubAuthService{},
		Cart:     stubCartService{},
		Purchase: stubPurchaseService{},
		Product:  stubProductService{},
		Batch:    stubBatchService{},
		Store:    stubStoreService{},
		UOM:      stubUOMService{},
	})
}

func mintToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(testConfig().Session, time.Now(), pkgAuth.SessionTokenPayload{
		UserID:    uuid.New(),
		SessionID: uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	for _, path := range []string{
		"/api/v1/cart-items",
		"/api/v1/purchases/active",
		"/api/v1/products",
		"/api/v1/stores",
		"/api/v1/units-of-measure/selection",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, w.Code)
		}
	}
}

func TestProtectedRouteAcceptsBearerToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginIsPublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// An empty body fails validation, not authentication.
	if w.Code == http.StatusUnauthorized {
		t.Fatalf("login must not require a token, got %d", w.Code)
	}
}
