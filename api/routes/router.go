package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/blogs"
	"github.com/angelmondragon/storefront/internal/categories"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/store"
	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Services are the remote-API backed domain services.
type Services struct {
	Products   products.Service
	Categories categories.Service
	Blogs      blogs.Service
	Orders     orders.Service
	Users      users.Service
}

// Deps is everything the router needs from main.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *store.Container
	Gate     middleware.Readiness
	Auth     *auth.Service
	Cookies  controllers.CookieRenderer
	Checkout *checkout.Service
	Services Services
	Boards   *AdminBoards
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Gate, d.Pingers))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Hydrated(d.Gate, logg))

		r.Get("/state", controllers.State(d.Store))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Store))
			r.Delete("/", controllers.CartClear(d.Store))
			r.Post("/items", controllers.CartAddItem(d.Store, logg))
			r.Patch("/items/{id}", controllers.CartUpdateQuantity(d.Store, logg))
			r.Delete("/items/{id}", controllers.CartRemoveItem(d.Store))
			r.Post("/products/{url}", controllers.CartAddProduct(d.Store, d.Services.Products, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(d.Auth, d.Cookies, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, d.Cookies, logg))
			r.Post("/register", controllers.AuthRegister(d.Auth, logg))
		})

		r.Get("/products", controllers.ProductsList(d.Services.Products, logg))
		r.Get("/products/latest", controllers.ProductsLatest(d.Services.Products, logg))
		r.Get("/products/by-url/{url}", controllers.ProductByURL(d.Services.Products, logg))
		r.Get("/categories", controllers.CategoriesList(d.Services.Categories, logg))
		r.Get("/blogs", controllers.BlogsList(d.Services.Blogs, logg))
		r.Get("/blogs/latest", controllers.BlogsLatest(d.Services.Blogs, logg))
		r.Get("/blogs/by-url/{url}", controllers.BlogByURL(d.Services.Blogs, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Auth, logg))

			r.Get("/auth/me", controllers.AuthMe(d.Auth, logg))
			r.Get("/profile/orders", controllers.ProfileOrders(d.Auth, logg))
			r.Get("/checkout", controllers.CheckoutSummary(d.Checkout, logg))
			r.Post("/checkout", controllers.CheckoutSubmit(d.Checkout, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(cfg.Auth.AdminRole, logg))
				mountAdmin(r, d.Boards, d.Services, logg)
			})
		})
	})

	return r
}
