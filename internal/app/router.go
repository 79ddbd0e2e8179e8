package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/posts"
	"github.com/inkpost/inkpost/internal/uploads"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthService    *auth.Service
	AuthHandler    *auth.Handler
	PostsHandler   *posts.Handler
	UploadsHandler *uploads.Handler
}

// NewRouter constructs the chi.Router with Inkpost defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public surface: credentials exchange and post reads.
	params.AuthHandler.MountPublicRoutes(r)
	params.PostsHandler.MountPublicRoutes(r)

	// Protected surface: identity is verified before any handler runs,
	// and ownership checks happen inside the posts service afterwards.
	r.Group(func(r chi.Router) {
		r.Use(auth.Require(params.AuthService))
		params.AuthHandler.MountProtectedRoutes(r)
		params.PostsHandler.MountProtectedRoutes(r)
		params.UploadsHandler.MountProtectedRoutes(r)
	})

	if params.Config != nil && params.Config.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(params.Config.UploadDir)))
		r.Handle("/uploads/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
