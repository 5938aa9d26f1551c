package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/config"
)

// RouterOptions holds everything mounted on the API router
type RouterOptions struct {
	Handler        *Handler
	Hub            *Hub
	Health         http.Handler
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// NewRouter builds the chi router for the API
func NewRouter(opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Health != nil {
		r.Handle("/health", opts.Health)
		r.Handle("/ready", opts.Health)
		r.Handle("/live", opts.Health)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predictions", opts.Handler.CreatePrediction)
		r.Get("/predictions", opts.Handler.ListPredictions)
		r.Get("/predictions/{id}", opts.Handler.GetPrediction)
		r.Post("/neighbors", opts.Handler.FindNeighbors)
		r.Get("/dataset", opts.Handler.GetDataset)
		r.Post("/dataset/refresh", opts.Handler.RefreshDataset)
	})

	if opts.Hub != nil {
		r.Get("/ws/predictions", opts.Hub.ServeWS)
	}

	return r
}

// Server runs the API router on the configured address
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates an HTTP server for handler
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         cfg.HTTPAddress,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.WithField("address", s.server.Addr).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}
