package main

import (
	"context"
	"errors"
	"fmt"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/metrics"
	"movieapp/proj/internal/services/auth"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				w.Header().Set("Connection", "close")
				err, ok := rvr.(error)
				if !ok {
					err = fmt.Errorf("%v", rvr)
				}
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	if app.cfg.Limiter.Enabled {
		go func() {
			for {
				time.Sleep(time.Minute)
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > 3*time.Minute {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.cfg.Limiter.Enabled {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// RealIP strips the port.
				ip = r.RemoteAddr
			}
			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{
					limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst),
				}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()
			if !allowed {
				log.Warn("rate limit exceeded", "ip", ip)
				app.Http.Response(
					w, r,
					envelop{"error": "rate limit exceeded"},
					"Can't process request see an error below.",
					http.StatusTooManyRequests,
				)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics records request count and latency labelled by the matched chi
// route pattern, so path parameters do not blow up label cardinality.
func (app *Application) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

func (app *Application) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

type CtxKey string

const CtxKeyUser CtxKey = "user"

// contextGetUser returns the authenticated user or nil for anonymous
// requests.
func contextGetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(CtxKeyUser).(*models.User)
	return user
}

// Authenticate resolves a bearer token into a user and stores it in the
// request context. Requests without an Authorization header pass through
// anonymously. Mounted only on routes that need a user.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var user *models.User

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) < len(bearerPrefix)+1 {
				app.log.Warn("Invalid auth header")
				app.Http.Unauthorized(w, r, "Invalid Authorization header, should be 'Bearer <token>'")
				return
			}
			token := strings.TrimPrefix(authHeader, bearerPrefix)
			var err error
			user, err = app.services.Auth.UserFromToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					app.Http.Unauthorized(w, r, auth.ErrInvalidToken.Error())
					return
				}
				app.Http.ServerError(w, r, err, "")
				return
			}
		}
		r = r.WithContext(context.WithValue(r.Context(), CtxKeyUser, user))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contextGetUser(r) == nil {
			app.Http.Unauthorized(w, r, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
