package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	activityHandler "github.com/nafaymotors/inventory/internal/http/activity"
	dashboardHandler "github.com/nafaymotors/inventory/internal/http/dashboard"
	authMiddleware "github.com/nafaymotors/inventory/internal/http/middleware"
	purchaseHandler "github.com/nafaymotors/inventory/internal/http/purchase"
	"github.com/nafaymotors/inventory/internal/http/response"
	userHandler "github.com/nafaymotors/inventory/internal/http/user"
)

func New(
	allowedOrigins []string,
	auth *authMiddleware.Auth,
	purchases *purchaseHandler.Handler,
	users *userHandler.Handler,
	activities *activityHandler.Handler,
	dashboard *dashboardHandler.Handler,
) http.Handler {
	started := time.Now()

	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			users.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.Require)
				users.ProtectedRoutes(r)
			})
		})

		// Purchase operations work without a session but stamp audit
		// identity when one is present.
		r.Route("/purchases", func(r chi.Router) {
			r.Use(auth.Optional)
			purchases.Routes(r)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Use(auth.Require)
			activities.Routes(r)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(auth.Optional)
			dashboard.Routes(r)
		})

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			response.Success(w, "Server is running healthy", map[string]any{
				"uptime": time.Since(started).Seconds(),
			})
		})
	})

	return router
}
