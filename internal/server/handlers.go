package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clientdesk/internal/client"
)

const healthPingTimeout = 2 * time.Second

// ── /health ───────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	dbStatus := "ok"
	if err := s.clients.Ping(ctx); err != nil {
		s.logger.Warn("health check: store unreachable", zap.Error(err))
		dbStatus = "error"
	}
	count, err := s.clients.Count(ctx)
	if err != nil {
		dbStatus = "error"
	}

	now := s.opts.Now()
	resp := HealthResponse{
		Status:      "OK",
		Message:     "Client Management API Server is running",
		Timestamp:   now.UTC(),
		Version:     s.opts.Version,
		Environment: s.opts.Environment,
		Uptime:      now.Sub(s.started).Seconds(),
		Clients:     count,
		DB:          dbStatus,
	}
	s.logger.Debug("health check requested", zap.String("db", dbStatus))
	return c.JSON(http.StatusOK, resp)
}

// ── /clients ──────────────────────────────────────────────────────────────────

func (s *Server) handleListClients(c echo.Context) error {
	if c.QueryParam("id") != "" {
		return s.handleGetClient(c)
	}
	clients, err := s.clients.List(c.Request().Context())
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []client.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

func (s *Server) handleGetClient(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	cl, err := s.clients.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

func (s *Server) handleCreateClient(c echo.Context) error {
	var in client.Input
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	created, err := s.clients.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateClient(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	var in client.Input
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	updated, err := s.clients.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	if err := s.clients.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// clientID reads the id from the path, or from ?id= on the bare route.
func clientID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.QueryParam("id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	return id, nil
}

// bindJSON decodes the request body into v whatever the content type. An
// empty body leaves v as is; anything after the first JSON value is an error.
func bindJSON(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON body")
		}
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}
