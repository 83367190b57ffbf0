package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loosihong/RAiD-Backend/api/controllers"
	"github.com/loosihong/RAiD-Backend/api/middleware"
	authsvc "github.com/loosihong/RAiD-Backend/internal/auth"
	batchsvc "github.com/loosihong/RAiD-Backend/internal/batch"
	cartsvc "github.com/loosihong/RAiD-Backend/internal/cart"
	productsvc "github.com/loosihong/RAiD-Backend/internal/product"
	purchasesvc "github.com/loosihong/RAiD-Backend/internal/purchase"
	storesvc "github.com/loosihong/RAiD-Backend/internal/store"
	uomsvc "github.com/loosihong/RAiD-Backend/internal/uom"
	"github.com/loosihong/RAiD-Backend/pkg/auth/session"
	"github.com/loosihong/RAiD-Backend/pkg/config"
	"github.com/loosihong/RAiD-Backend/pkg/db"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
	"github.com/loosihong/RAiD-Backend/pkg/metrics"
	"github.com/loosihong/RAiD-Backend/pkg/redis"
)

// Services bundles the wired domain services handed to the router.
type Services struct {
	Auth     authsvc.Service
	Cart     cartsvc.Service
	Purchase purchasesvc.Service
	Product  productsvc.Service
	Batch    batchsvc.Service
	Store    storesvc.Service
	UOM      uomsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionChecker session.Checker,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Session, sessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Get("/me", controllers.AuthMe(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Session, sessionChecker, logg))

		r.Route("/cart-items", func(r chi.Router) {
			r.Get("/", controllers.CartList(svcs.Cart, logg))
			r.Get("/products/{productId}/quantity", controllers.CartProductQuantity(svcs.Cart, logg))
			r.Post("/", controllers.CartAdd(svcs.Cart, logg))
			r.Put("/", controllers.CartUpdate(svcs.Cart, logg))
			r.Delete("/{id}", controllers.CartDelete(svcs.Cart, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.PurchaseCreate(svcs.Purchase, logg))
			r.Put("/pay", controllers.PurchasePay(svcs.Purchase, logg))
			r.Put("/confirm", controllers.PurchaseConfirm(svcs.Purchase, logg))
			r.Put("/send", controllers.PurchaseSend(svcs.Purchase, logg))
			r.Put("/delivered", controllers.PurchaseDelivered(svcs.Purchase, logg))
			r.Put("/receive", controllers.PurchaseReceive(svcs.Purchase, logg))
			r.Get("/active", controllers.PurchaseActive(svcs.Purchase, logg))
			r.Get("/history", controllers.PurchaseHistory(svcs.Purchase, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(svcs.Product, logg))
			r.Get("/{id}", controllers.ProductDetail(svcs.Product, logg))
			r.Post("/", controllers.ProductCreate(svcs.Product, logg))
			r.Put("/", controllers.ProductUpdate(svcs.Product, logg))
			r.Delete("/{id}", controllers.ProductDelete(svcs.Product, logg))
			r.Get("/{id}/product-batches", controllers.BatchList(svcs.Batch, logg))
		})

		r.Route("/product-batches", func(r chi.Router) {
			r.Post("/", controllers.BatchCreate(svcs.Batch, logg))
			r.Put("/", controllers.BatchUpdate(svcs.Batch, logg))
			r.Delete("/{id}", controllers.BatchDelete(svcs.Batch, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreProfile(svcs.Store, logg))
			r.Post("/", controllers.StoreCreate(svcs.Store, logg))
			r.Put("/", controllers.StoreUpdate(svcs.Store, logg))
			r.Get("/products", controllers.StoreProducts(svcs.Product, logg))
			r.Get("/products/{id}", controllers.ProductDetail(svcs.Product, logg))
			r.Get("/purchases", controllers.StorePurchases(svcs.Purchase, logg))
		})

		r.Get("/units-of-measure/selection", controllers.UnitOfMeasureSelection(svcs.UOM, logg))
	})

	return r
}
