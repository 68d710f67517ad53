package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"postboard/internal/api"
	apiMiddleware "postboard/internal/api/middleware"
	"postboard/internal/api/shared"
	"postboard/internal/cache"
)

// setupRouter creates and configures the application router with all routes
// and middleware. The v1 and v2 groups mount the same parameterized handler
// set; they differ only in cache namespace and in the auth gate in front of
// v2.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.RequestLogger)

	authHandler := api.NewAuthHandler(app.jwtService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	v1Handler := api.NewPostHandler(app.postService, cache.NamespaceV1, app.logger)
	v2Handler := api.NewPostHandler(app.postService, cache.NamespaceV2, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			mountPostRoutes(r, v1Handler)
		})

		r.Route("/v2", func(r chi.Router) {
			// Token issuance is the one public v2 endpoint.
			r.Post("/auth/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				mountPostRoutes(r, v2Handler)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
	})

	return r
}

// mountPostRoutes registers the CRUD routes for one version's handler set.
// PUT and PATCH share the update handler: both apply
// overwrite-present-fields semantics.
func mountPostRoutes(r chi.Router, h *api.PostHandler) {
	r.Get("/posts", h.List)
	r.Post("/posts", h.Create)
	r.Get("/posts/{id}", h.Get)
	r.Put("/posts/{id}", h.Update)
	r.Patch("/posts/{id}", h.Update)
	r.Delete("/posts/{id}", h.Delete)
}
