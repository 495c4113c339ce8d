package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/image-store/internal/api"
	"github.com/leca/image-store/internal/config"
	"github.com/leca/image-store/internal/handler"
	"github.com/leca/image-store/internal/store"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	Store  store.Store
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(st store.Store, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{Store: st, Config: cfg}

	h := &handler.Handler{
		Store:  st,
		Config: cfg,
	}

	r := chi.NewRouter()

	// CORS must run before routing so preflight OPTIONS requests are answered.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", api.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.MethodNotAllowed(w, r.Method+" is not supported on "+r.URL.Path)
	})

	r.Get("/health", s.Health)
	r.Get("/stats", h.GetStats)

	// Records are immutable and the collection cannot be deleted as a whole;
	// every other method on these paths answers 405.
	r.Route("/images", func(r chi.Router) {
		r.Get("/", h.ListImages)
		r.Post("/", h.UploadImage)

		r.Get("/{id}", h.GetImage)
		r.Delete("/{id}", h.DeleteImage)
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
