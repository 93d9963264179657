package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientdesk/internal/client"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListAndGet(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			writeJSON(w, http.StatusOK, []client.Client{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}})
		case "/clients/2":
			writeJSON(w, http.StatusOK, client.Client{ID: 2, Name: "Jane Smith"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Client not found"})
		}
	})
	ctx := context.Background()

	clients, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	got, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)

	_, err = c.Get(ctx, 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Not Found: Client not found (Client not found)", err.Error())
}

func TestCreateUpdateDelete(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody client.Input
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusCreated, client.Client{ID: 5, Name: gotBody.Name, Status: client.StatusActive})
		case http.MethodPut:
			writeJSON(w, http.StatusOK, client.Client{ID: 5, Name: gotBody.Name})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	created, err := c.Create(ctx, client.Input{Name: "A", Email: "a@a.com", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/clients", gotPath)
	assert.Equal(t, "a@a.com", gotBody.Email)

	updated, err := c.Update(ctx, 5, client.Input{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, "/clients/5", gotPath)

	require.NoError(t, c.Delete(ctx, 5))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestErrorDetails(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"Name is required", "Phone is required"}})
		case http.MethodPut:
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Client with this email already exists"})
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	_, err := c.Create(ctx, client.Input{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Bad Request: Invalid client data provided", apiErr.Message)
	assert.Equal(t, []string{"Name is required", "Phone is required"}, apiErr.Details)

	_, err = c.Update(ctx, 1, client.Input{})
	assert.True(t, IsConflict(err))

	_, err = c.List(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Server Error: 418 - I'm a teapot", apiErr.Message)
	assert.Empty(t, apiErr.Details)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.Health(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, NetworkErrorMessage, apiErr.Message)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestCancelledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []client.Client{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageForStatus(t *testing.T) {
	tests := map[int]string{
		0:   NetworkErrorMessage,
		400: "Bad Request: Invalid client data provided",
		401: "Unauthorized: Please log in to continue",
		403: "Forbidden: You do not have permission to perform this action",
		404: "Not Found: Client not found",
		409: "Conflict: Client with this email already exists",
		422: "Validation Error: Please check your input data",
		500: "Internal Server Error: Please try again later",
		503: "Server Error: 503 - Service Unavailable",
	}
	for status, want := range tests {
		assert.Equal(t, want, MessageForStatus(status), "status %d", status)
	}
}
