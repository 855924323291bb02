package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matrknhash/marketplace-backend/api/controllers"
	"github.com/matrknhash/marketplace-backend/api/middleware"
	checkoutsvc "github.com/matrknhash/marketplace-backend/internal/checkout"
	"github.com/matrknhash/marketplace-backend/internal/fitment"
	"github.com/matrknhash/marketplace-backend/internal/notifications"
	"github.com/matrknhash/marketplace-backend/internal/orders"
	"github.com/matrknhash/marketplace-backend/internal/products"
	"github.com/matrknhash/marketplace-backend/internal/users"
	"github.com/matrknhash/marketplace-backend/internal/wallet"
	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	pkgredis "github.com/matrknhash/marketplace-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Handlers never reach for
// globals; the router is the single wiring point.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    *db.Client
	Redis *pkgredis.Client
	Hub   *notifications.Hub

	Checkout checkoutsvc.Service
	Orders   orders.Service
	Users    users.Service
	Products products.Service
	Wallet   wallet.Service
	Fitment  fitment.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Livez())
		r.Get("/ready", controllers.Readyz(deps.DB, deps.Redis, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Catalog reads are public; everything else requires a bearer token.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/suggestions", controllers.SuggestProducts(deps.Products, logg))
		r.Get("/{productID}", controllers.ProductDetail(deps.Products, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore(deps.Redis), logg))

		r.Route("/v1", func(r chi.Router) {
			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
			r.Get("/events", controllers.StreamEvents(deps.Hub, logg))
			r.Get("/wallet", controllers.WalletBalance(deps.Wallet, logg))
			r.Post("/fitment/chat", controllers.FitmentChat(deps.Fitment, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderID}/return", controllers.RequestReturn(deps.Orders, logg))
			})
			r.With(middleware.RequireRole(enums.UserRoleAdmin, logg)).
				Get("/returns", controllers.ListReturns(deps.Orders, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(deps.Users, logg))
				r.Post("/", controllers.CreateAddress(deps.Users, logg))
				r.Delete("/{addressID}", controllers.DeleteAddress(deps.Users, logg))
			})

			r.Route("/garage", func(r chi.Router) {
				r.Get("/", controllers.ListGarage(deps.Users, logg))
				r.Post("/", controllers.CreateVehicle(deps.Users, logg))
				r.Patch("/{vehicleID}/primary", controllers.SetPrimaryVehicle(deps.Users, logg))
				r.Delete("/{vehicleID}", controllers.DeleteVehicle(deps.Users, logg))
			})

			r.Route("/vendor", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleVendor, logg))
				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.ListVendorOrders(deps.Orders, logg))
					r.Patch("/{orderID}/status", controllers.VendorUpdateStatus(deps.Orders, logg))
				})
				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.ListVendorProducts(deps.Products, logg))
					r.Post("/", controllers.CreateProduct(deps.Products, logg))
					r.Patch("/{productID}", controllers.UpdateProduct(deps.Products, logg))
					r.Delete("/{productID}", controllers.DeleteProduct(deps.Products, logg))
				})
			})
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListAllOrders(deps.Orders, logg))
				r.Patch("/{orderID}/status", controllers.AdminOverrideStatus(deps.Orders, logg))
				r.Post("/{orderID}/confirm", controllers.ConfirmAndShip(deps.Orders, logg))
			})
		})
	})

	return r
}

// idempotencyStore hides a typed-nil redis client behind a nil interface so
// the middleware can skip the replay check cleanly when redis is absent.
func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
