package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arlomendez/techstore-backend/api/controllers"
	cartcontrollers "github.com/arlomendez/techstore-backend/api/controllers/cart"
	"github.com/arlomendez/techstore-backend/api/middleware"
	cartsvc "github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/internal/catalog"
	"github.com/arlomendez/techstore-backend/internal/notifications"
	"github.com/arlomendez/techstore-backend/internal/orders"
	"github.com/arlomendez/techstore-backend/pkg/config"
	"github.com/arlomendez/techstore-backend/pkg/db"
	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/arlomendez/techstore-backend/pkg/metrics"
	"github.com/arlomendez/techstore-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	cartService *cartsvc.Service,
	catalogService catalog.Service,
	ordersService orders.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{productID}", controllers.GetProduct(catalogService, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, catalogService, logg))
			r.Patch("/items", cartcontrollers.UpdateItem(cartService, logg))
			r.Delete("/items", cartcontrollers.RemoveItem(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
		})

		checkoutPolicy := middleware.NewRateLimitPolicy(
			"checkout",
			cfg.RateLimit.CheckoutWindow,
			cfg.RateLimit.CheckoutLimit,
		)
		r.With(middleware.RateLimit(checkoutPolicy, redisClient, logg)).
			Post("/v1/checkout", controllers.Checkout(ordersService, cartService, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/{orderID}", controllers.GetOrder(ordersService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(catalogService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Post("/v1/orders/{orderID}/status", controllers.UpdateOrderStatus(ordersService, logg))
	})

	return r
}
