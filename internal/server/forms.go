package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clientdesk/internal/forms"
)

const maxFormBody = 1 << 20

// ── /forms ────────────────────────────────────────────────────────────────────

func (s *Server) handleListForms(c echo.Context) error {
	return c.JSON(http.StatusOK, FormListResponse{Forms: s.forms.Names()})
}

func (s *Server) handleGetForm(c echo.Context) error {
	name := c.Param("name")
	form, err := s.forms.Form(name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FormResponse{
		Name:        name,
		Title:       form.Title,
		Description: form.Description,
		SubmitText:  form.SubmitText,
		ResetText:   form.ResetText,
		Fields:      form.Fields(),
		Values:      form.Values(),
	})
}

func (s *Server) handleSubmitForm(c echo.Context) error {
	name := c.Param("name")
	form, err := s.forms.Form(name)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxFormBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	values := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&values); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
		}
	}

	if err := form.SetValues(values); err != nil {
		s.recordSubmission(name, "rejected")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data, err := form.Submit()
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		s.recordSubmission(name, "rejected")
		s.logger.Info("form submission rejected", zap.String("form", name), zap.Int("errors", len(verr.Errors)))
		return c.JSON(http.StatusBadRequest, FormErrorResponse{
			Message: verr.Message(),
			Errors:  verr.Fields(),
		})
	}
	if err != nil {
		return err
	}

	s.recordSubmission(name, "accepted")
	s.logger.Info("form submitted", zap.String("form", name))
	return c.JSON(http.StatusOK, FormSubmitResponse{Data: data})
}

func (s *Server) recordSubmission(form, result string) {
	if s.metrics != nil {
		s.metrics.formSubmissions.WithLabelValues(form, result).Inc()
	}
}
