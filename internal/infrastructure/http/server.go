package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Handlers groups the route handlers the server mounts
type Handlers struct {
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
	Editor   *handler.EditorHandler
}

// Server represents the HTTP server
type Server struct {
	router        *chi.Mux
	config        *config.ServerConfig
	handlers      Handlers
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	httpServer    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		config:        cfg,
		handlers:      handlers,
		logger:        logger,
		meterProvider: meterProvider,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	// session first so the request log line carries it
	s.router.Use(middleware.Session())
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.meterProvider.Meter("storefront-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	products := s.handlers.Products
	carts := s.handlers.Carts
	editor := s.handlers.Editor

	s.router.Get("/categories", products.ListCategories)

	s.router.Route("/products", func(r chi.Router) {
		r.Get("/", products.ListProducts)
		r.Get("/{id}", products.GetProduct)
	})

	s.router.Route("/cart", func(r chi.Router) {
		r.Get("/", carts.GetCart)
		r.Delete("/", carts.ClearCart)
		r.Post("/items", carts.AddItem)
		r.Patch("/items/{id}", carts.AdjustItem)
		r.Delete("/items/{id}", carts.RemoveItem)
	})
	s.router.Post("/checkout", carts.Checkout)

	s.router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(s.config.AdminToken))

		r.Route("/editor", func(r chi.Router) {
			r.Get("/", editor.GetEditor)
			r.Post("/", editor.StartCreate)
			r.Patch("/", editor.UpdateDraft)
			r.Delete("/", editor.Cancel)
			r.Post("/edit/{id}", editor.StartEdit)
			r.Post("/image", editor.UploadImage)
			r.Post("/description", editor.RequestDescription)
			r.Post("/submit", editor.Submit)
		})
		r.Delete("/products/{id}", products.DeleteProduct)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// OpenTelemetry metrics through the Prometheus exporter
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp instrumentation
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.meterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			return []attribute.KeyValue{attribute.String("http.route", route)}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
