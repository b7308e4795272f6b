package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"rds-provider/internal/ports"
)

// ServerConfig configuração do servidor API
type ServerConfig struct {
	Port           int
	Host           string
	Version        string
	MetricsPath    string
	AllowedOrigins []string
	Auth           AuthConfig
}

// Server representa o servidor HTTP da API
type Server struct {
	config   *ServerConfig
	router   *chi.Mux
	handlers *Handlers
	logger   logr.Logger
	server   *http.Server
}

// NewServer cria um novo servidor API
func NewServer(config *ServerConfig, provider ports.RDSProviderUseCase, logger logr.Logger) *Server {
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	s := &Server{
		config:   config,
		router:   chi.NewRouter(),
		handlers: NewHandlers(provider, config),
		logger:   logger,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupRoutes configura as rotas da API
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recoverer)

	if len(s.config.AllowedOrigins) > 0 {
		r.Use(CORS(s.config.AllowedOrigins))
	}

	// Public routes
	r.Get("/health", s.handlers.Health)
	r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(APIKeyAuth(s.config.Auth))

		r.Get("/health", s.handlers.Health)
		r.Get("/metadata", s.handlers.Metadata)

		r.Post("/templates", s.handlers.CreateTemplate)

		r.Route("/instances", func(r chi.Router) {
			r.Post("/allocate", s.handlers.Allocate)
			r.Post("/find", s.handlers.Find)
			r.Post("/delete", s.handlers.Delete)
			r.Post("/state", s.handlers.State)
		})
	})
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Starting API server", "address", s.server.Addr, "metrics", s.config.MetricsPath)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown para o servidor graciosamente
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router retorna o router Chi (para testes)
func (s *Server) Router() *chi.Mux {
	return s.router
}
