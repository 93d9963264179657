// Package server exposes the client API and the form endpoints over HTTP.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"clientdesk/internal/forms"
	"clientdesk/internal/service"
)

// DefaultVersion is reported by /health when Options.Version is empty.
const DefaultVersion = "1.0.0"

// Options configures a Server.
type Options struct {
	Version     string
	Environment string
	// Forms, when set, enables the /forms endpoints.
	Forms *forms.Registry
	// Metrics, when set, records request metrics and serves /metrics.
	Metrics *Metrics
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Server is the clientdesk HTTP API.
type Server struct {
	echo    *echo.Echo
	clients *service.Clients
	forms   *forms.Registry
	metrics *Metrics
	logger  *zap.Logger
	opts    Options
	started time.Time
}

// New creates a Server. The returned value is an http.Handler.
func New(clients *service.Clients, logger *zap.Logger, opts Options) (*Server, error) {
	if clients == nil {
		return nil, fmt.Errorf("clients service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Environment == "" {
		opts.Environment = "development"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		clients: clients,
		forms:   opts.Forms,
		metrics: opts.Metrics,
		logger:  logger,
		opts:    opts,
		started: opts.Now(),
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestID())
	e.Use(observeMiddleware(logger, s.metrics))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", s.metrics.Handler())
	}

	s.echo.GET("/clients", s.handleListClients)
	s.echo.POST("/clients", s.handleCreateClient)
	s.echo.PUT("/clients", s.handleUpdateClient)
	s.echo.DELETE("/clients", s.handleDeleteClient)
	s.echo.GET("/clients/:id", s.handleGetClient)
	s.echo.PUT("/clients/:id", s.handleUpdateClient)
	s.echo.DELETE("/clients/:id", s.handleDeleteClient)

	if s.forms != nil {
		s.echo.GET("/forms", s.handleListForms)
		s.echo.GET("/forms/:name", s.handleGetForm)
		s.echo.POST("/forms/:name/submit", s.handleSubmitForm)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
