package http

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/stockly/docs"
	"github.com/rogerio-castellano/stockly/internal/auth"
	"github.com/rogerio-castellano/stockly/internal/http/ban"
	"github.com/rogerio-castellano/stockly/internal/http/handlers"
	rl "github.com/rogerio-castellano/stockly/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type RouterDeps struct {
	Server *handlers.Server
	Auth   *auth.AuthService

	// Limiter and Guard are optional; rate limiting is off without them.
	Limiter *rl.Limiter
	Guard   *ban.Guard

	// TrustedProxies may set the client address through X-Forwarded-For
	// or X-Real-IP. Without entries the socket address is always used.
	TrustedProxies []netip.Prefix
}

func NewRouter(d RouterDeps) http.Handler {
	s := d.Server
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(TrustedRealIP(d.TrustedProxies))
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if d.Limiter != nil && d.Guard != nil {
		r.Use(RateLimitMiddleware(d.Limiter, d.Guard))
	}

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.RegisterHandler)
		r.Post("/auth/login", s.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Auth))

			r.Post("/auth/logout", s.LogoutHandler)
			r.Get("/auth/session", s.SessionHandler)

			r.HandleFunc("/categories", s.CategoriesHandler)
			r.HandleFunc("/suppliers", s.SuppliersHandler)

			r.Get("/products", s.GetProductsHandler)
			r.Post("/products", s.CreateProductHandler)
			r.Get("/products/search", s.FilterProductsHandler)
			r.Post("/products/import", s.ImportProductsHandler)
			r.Get("/products/{id}", s.GetProductByIDHandler)
			r.Put("/products/{id}", s.UpdateProductHandler)
			r.Delete("/products/{id}", s.DeleteProductHandler)
			r.Post("/products/{id}/copy", s.CopyProductHandler)

			r.Get("/analytics", s.AnalyticsHandler)
			r.Get("/analytics/export", s.ExportAnalyticsHandler)

			r.Get("/status", s.StatusHandler)
		})
	})

	return r
}
