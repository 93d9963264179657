package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clientdesk/internal/client"
	"clientdesk/internal/forms"
)

// handleError maps handler errors onto the API error bodies.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorResponse(err, c)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("failed to write error response", zap.Error(err))
	}
}

func (s *Server) errorResponse(err error, c echo.Context) (int, any) {
	var (
		verr *client.ValidationError
		serr *forms.SchemaError
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ValidationResponse{Errors: verr.Problems}
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Client not found"}
	case errors.Is(err, client.ErrDuplicateEmail):
		if c.Request().Method == http.MethodPut {
			return http.StatusConflict, ErrorResponse{Error: "Another client with this email already exists"}
		}
		return http.StatusConflict, ErrorResponse{Error: "Client with this email already exists"}
	case errors.Is(err, forms.ErrSchemaNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Form not found", Message: fmt.Sprintf("No form named %q", c.Param("name"))}
	case errors.As(err, &serr), errors.Is(err, forms.ErrNoFields):
		s.logger.Error("invalid form schema", zap.String("form", c.Param("name")), zap.Error(err))
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Invalid form configuration",
			Message: err.Error(),
		}
	case errors.As(err, &herr):
		return s.httpErrorResponse(herr, c)
	}

	s.logger.Error("unhandled error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err),
	)
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Server Error",
		Message: "An unexpected error occurred. Please try again later.",
	}
}

func (s *Server) httpErrorResponse(herr *echo.HTTPError, c echo.Context) (int, any) {
	req := c.Request()
	switch herr.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		s.logger.Warn("route not found",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("user_agent", req.UserAgent()),
		)
		return http.StatusNotFound, RouteNotFoundResponse{
			Error:              "Route not found",
			Message:            fmt.Sprintf("The endpoint %s %s does not exist", req.Method, req.URL.Path),
			AvailableEndpoints: availableEndpoints,
		}
	case http.StatusInternalServerError:
		s.logger.Error("internal error", zap.Error(herr))
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An unexpected error occurred. Please try again later.",
		}
	}
	return herr.Code, ErrorResponse{Error: fmt.Sprint(herr.Message)}
}
