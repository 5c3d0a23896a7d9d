package main

import (
	"movieapp/proj/internal/metrics"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.Metrics)
	router.Use(app.CORS())
	router.Use(app.RateLimiter)

	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.register)
			r.Post("/login", app.login)
			r.With(app.Authenticate, app.requireAuthenticatedUser).Get("/me", app.me)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.listUsers)
			r.Get("/{id}", app.getUser)
		})
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", app.listMovies)
			r.Post("/", app.createMovie)
			r.Get("/search/external", app.searchExternal)
			r.Group(func(r chi.Router) {
				r.Use(app.Authenticate, app.requireAuthenticatedUser)
				r.Get("/user/watch-history", app.getWatchHistory)
				r.Post("/user/watch-history", app.addToWatchHistory)
				r.Get("/recommendations", app.getRecommendations)
			})
			r.Get("/{id}", app.getMovie)
		})
	})
	return router
}
