package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetricrackers/vetricrackers-backend/api/controllers"
	"github.com/vetricrackers/vetricrackers-backend/api/middleware"
	"github.com/vetricrackers/vetricrackers-backend/internal/banners"
	"github.com/vetricrackers/vetricrackers-backend/internal/bookings"
	"github.com/vetricrackers/vetricrackers-backend/internal/catalog"
	"github.com/vetricrackers/vetricrackers-backend/internal/customers"
	"github.com/vetricrackers/vetricrackers-backend/internal/locations"
	"github.com/vetricrackers/vetricrackers-backend/internal/promos"
	"github.com/vetricrackers/vetricrackers-backend/internal/quotations"
	"github.com/vetricrackers/vetricrackers-backend/internal/reports"
	"github.com/vetricrackers/vetricrackers-backend/pkg/config"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/redis"
)

// Deps bundles everything the router needs. Services may be nil in partial
// deployments; their controllers answer with an internal error.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPing    func(context.Context) error
	RedisPing func(context.Context) error
	Redis     *redis.Client

	// Idempotency overrides Redis as the replay store when set. Tests
	// inject a fake here.
	Idempotency redis.IdempotencyStore

	Catalog   catalog.Service
	Customers customers.Service
	Quotes    quotations.Service
	Bookings  bookings.Service
	Promos    promos.Service
	Banners   banners.Service
	Rates     locations.Service
	Reports   reports.Service
}

// idempotencyStore resolves the replay store, preferring an explicit
// override. Assigning a nil *redis.Client to the interface would produce
// a non-nil value, so the concrete pointer is checked before conversion.
func (d Deps) idempotencyStore() redis.IdempotencyStore {
	if d.Idempotency != nil {
		return d.Idempotency
	}
	if d.Redis != nil {
		return d.Redis
	}
	return nil
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]func(context.Context) error{
			"database": deps.DBPing,
			"redis":    deps.RedisPing,
		}, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if store := deps.idempotencyStore(); store != nil {
			r.Use(middleware.Idempotency(store, logg))
		}
		if deps.Redis != nil {
			r.Use(middleware.WriteRateLimit(cfg.RateLimit, deps.Redis, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Get("/pricelist/{productType}", controllers.ProductPriceList(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Catalog, logg))
			r.Put("/{id}", controllers.UpdateProduct(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteProduct(deps.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(deps.Customers, logg))
			r.Post("/", controllers.CreateCustomer(deps.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(deps.Customers, logg))
			r.Put("/{id}", controllers.UpdateCustomer(deps.Customers, logg))
			r.Delete("/{id}", controllers.DeleteCustomer(deps.Customers, logg))
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", controllers.ListQuotations(deps.Quotes, logg))
			r.Post("/", controllers.CreateQuotation(deps.Quotes, logg))
			r.Put("/cancel/{id}", controllers.CancelQuotation(deps.Quotes, logg))
			r.Get("/{id}", controllers.GetQuotation(deps.Quotes, logg))
			r.Put("/{id}", controllers.EditQuotation(deps.Quotes, logg))
			r.Post("/{id}/convert", controllers.ConvertQuotation(deps.Quotes, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.ListBookings(deps.Bookings, logg))
			r.Get("/{id}", controllers.GetBooking(deps.Bookings, logg))
			r.Post("/{id}/status", controllers.UpdateBookingStatus(deps.Bookings, logg))
		})

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.ListActivePromos(deps.Promos, logg))
			r.Post("/", controllers.CreatePromo(deps.Promos, logg))
			r.Post("/validate", controllers.ValidatePromo(deps.Promos, logg))
			r.Put("/deactivate/{id}", controllers.DeactivatePromo(deps.Promos, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.ListBanners(deps.Banners, logg))
			r.Post("/", controllers.CreateBanner(deps.Banners, logg))
			r.Put("/{id}", controllers.UpdateBanner(deps.Banners, logg))
			r.Delete("/{id}", controllers.DeleteBanner(deps.Banners, logg))
		})

		r.Route("/delivery-rates", func(r chi.Router) {
			r.Get("/", controllers.ListDeliveryRates(deps.Rates, logg))
			r.Get("/lookup", controllers.LookupDeliveryRate(deps.Rates, logg))
			r.Post("/", controllers.CreateDeliveryRate(deps.Rates, logg))
			r.Put("/{id}", controllers.UpdateDeliveryRate(deps.Rates, logg))
			r.Delete("/{id}", controllers.DeleteDeliveryRate(deps.Rates, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", controllers.SalesReport(deps.Reports, logg))
			r.Get("/top-products", controllers.TopProducts(deps.Reports, logg))
		})
	})

	return r
}
