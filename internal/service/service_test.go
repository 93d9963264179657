package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"clientdesk/internal/client"
	"clientdesk/internal/logging"
	"clientdesk/internal/store"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, unique bool) *Clients {
	t.Helper()
	svc, err := New(store.NewMemoryStore(), nil, Options{
		UniqueEmail: unique,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil, Options{})
	assert.ErrorContains(t, err, "repository cannot be nil")
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and defaults status", func(t *testing.T) {
		svc := newService(t, true)

		c, err := svc.Create(ctx, client.Input{Name: "A", Email: "a@a.com", Phone: "1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, client.StatusActive, c.Status)
		assert.Equal(t, fixedNow, c.CreatedAt)
		assert.Equal(t, fixedNow, c.UpdatedAt)
	})

	t.Run("trims and sanitises input", func(t *testing.T) {
		svc := newService(t, true)

		c, err := svc.Create(ctx, client.Input{Name: " <i>A</i> ", Email: " a@a.com ", Phone: " 1 "})
		require.NoError(t, err)
		assert.Equal(t, "A", c.Name)
		assert.Equal(t, "a@a.com", c.Email)
		assert.Equal(t, "1", c.Phone)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := newService(t, true)

		_, err := svc.Create(ctx, client.Input{Name: "A", Email: "bad", Phone: "1"})
		var verr *client.ValidationError
		require.True(t, errors.As(err, &verr))

		n, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("duplicate email conflicts when checking is enabled", func(t *testing.T) {
		svc := newService(t, true)

		_, err := svc.Create(ctx, client.Input{Name: "A", Email: "same@a.com", Phone: "1"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, client.Input{Name: "B", Email: "SAME@a.com", Phone: "2"})
		assert.ErrorIs(t, err, client.ErrDuplicateEmail)
	})

	t.Run("duplicate email allowed when checking is disabled", func(t *testing.T) {
		svc := newService(t, false)

		_, err := svc.Create(ctx, client.Input{Name: "A", Email: "same@a.com", Phone: "1"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, client.Input{Name: "B", Email: "same@a.com", Phone: "2"})
		require.NoError(t, err)

		n, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, true)

	a, err := svc.Create(ctx, client.Input{Name: "A", Email: "a@a.com", Phone: "1", Status: client.StatusInactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, client.Input{Name: "B", Email: "b@b.com", Phone: "2"})
	require.NoError(t, err)

	t.Run("keeps status when omitted", func(t *testing.T) {
		updated, err := svc.Update(ctx, a.ID, client.Input{Name: "A2", Email: "a@a.com", Phone: "1"})
		require.NoError(t, err)
		assert.Equal(t, "A2", updated.Name)
		assert.Equal(t, client.StatusInactive, updated.Status)
		assert.Equal(t, a.ID, updated.ID)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, client.Input{Name: "A3", Email: "A@A.com", Phone: "1"})
		assert.NoError(t, err)
	})

	t.Run("another client's email conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, client.Input{Name: "A", Email: "b@b.com", Phone: "1"})
		assert.ErrorIs(t, err, client.ErrDuplicateEmail)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := svc.Update(ctx, 404, client.Input{Name: "A", Email: "z@z.com", Phone: "1"})
		assert.ErrorIs(t, err, client.ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, client.Input{Name: "", Email: "a@a.com", Phone: "1"})
		var verr *client.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, true)

	a, err := svc.Create(ctx, client.Input{Name: "A", Email: "a@a.com", Phone: "1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, client.Input{Name: "B", Email: "b@b.com", Phone: "2"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 999), client.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, a.ID))
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestLogging(t *testing.T) {
	logger, logs := logging.NewObserved()
	svc, err := New(store.NewMemoryStore(), logger, Options{UniqueEmail: true})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Create(ctx, client.Input{Name: "A", Email: "a@a.com", Phone: "1"})
	require.NoError(t, err)
	_, _ = svc.Create(ctx, client.Input{Name: "B", Email: "a@a.com", Phone: "1"})

	created := logs.FilterMessage("client created").All()
	require.Len(t, created, 1)
	assert.Equal(t, "A", created[0].ContextMap()["client_name"])

	dup := logs.FilterMessage("duplicate email attempted").All()
	require.Len(t, dup, 1)
	assert.Equal(t, zapcore.WarnLevel, dup[0].Level)
}
