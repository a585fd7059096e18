package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homeslands/order-sub002/api/controllers"
	"github.com/homeslands/order-sub002/api/middleware"
	"github.com/homeslands/order-sub002/internal/cart"
	"github.com/homeslands/order-sub002/internal/orders"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/config"
	"github.com/homeslands/order-sub002/pkg/db"
	"github.com/homeslands/order-sub002/pkg/enums"
	"github.com/homeslands/order-sub002/pkg/logger"
	"github.com/homeslands/order-sub002/pkg/redis"
)

// NewRouter wires every HTTP surface. Catalog reads stay public; anything
// that prices or mutates an order sits behind auth, idempotency, and the
// mutation rate limit.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	voucherService vouchers.Service,
	cartService cart.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	mutationPolicy := middleware.NewRateLimitPolicy(
		"mutation",
		cfg.RateLimit.Window,
		cfg.RateLimit.IPLimit,
		cfg.RateLimit.ActorLimit,
	)

	// A typed-nil client must stay nil once boxed into the middleware
	// interfaces, otherwise the nil checks inside them never fire.
	var idempotencyStore redis.IdempotencyStore
	var rateLimitStore middleware.RateLimiterStore
	var readyPinger redis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		rateLimitStore = redisClient
		readyPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, readyPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/vouchers", func(r chi.Router) {
		r.Get("/", controllers.VoucherList(voucherService, logg))
		r.Get("/{code}", controllers.VoucherDetail(voucherService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/validate", controllers.VoucherValidate(voucherService, cartService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Use(middleware.RateLimit(mutationPolicy, rateLimitStore, logg))

		r.Post("/cart/quote", controllers.CartQuote(cartService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/{orderSlug}", controllers.OrderDetail(orderService, logg))
			r.Put("/{orderSlug}/items", controllers.OrderItemsUpdate(orderService, logg))
			r.Post("/{orderSlug}/voucher", controllers.OrderVoucherApply(orderService, logg))
			r.Delete("/{orderSlug}/voucher", controllers.OrderVoucherRemove(orderService, logg))
			r.With(middleware.RequireAnyRole(logg, enums.RoleStaff, enums.RoleManager, enums.RoleAdmin)).
				Post("/{orderSlug}/settle", controllers.OrderSettle(orderService, logg))
		})
	})

	return r
}
