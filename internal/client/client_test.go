package client

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputValidate(t *testing.T) {
	t.Run("accepts a minimal client", func(t *testing.T) {
		in := Input{Name: "A", Email: "a@a.com", Phone: "1"}
		assert.NoError(t, in.Validate())
	})

	t.Run("reports every missing field", func(t *testing.T) {
		err := Input{}.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"Name is required", "Email is required", "Phone is required"}, verr.Problems)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		err := Input{Name: "A", Email: "not-an-email", Phone: "1"}.Validate()

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"Email format is invalid"}, verr.Problems)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		err := Input{Name: "A", Email: "a@a.com", Phone: "1", Status: "archived"}.Validate()

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Problems[0], "Status must be")
	})
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"john.doe@example.com", true},
		{"a@b.co", true},
		{"missing-at.example.com", false},
		{"no-tld@example", false},
		{"spaces in@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestInputSanitized(t *testing.T) {
	in := Input{
		Name:    "  <b>Jane</b> Smith ",
		Email:   " jane@example.com ",
		Phone:   " +1-555 ",
		Company: "Smith & Sons<script>alert(1)</script>",
		Status:  " Active ",
	}

	out := in.Sanitized()

	assert.Equal(t, "Jane Smith", out.Name)
	assert.Equal(t, "jane@example.com", out.Email)
	assert.Equal(t, "+1-555", out.Phone)
	assert.Equal(t, "Smith & Sons", out.Company)
	assert.Equal(t, StatusActive, out.Status)
}

func TestNewAndApply(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	c := New(Input{Name: "A", Email: "a@a.com", Phone: "1"}, created)

	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, created, c.UpdatedAt)

	c.ID = 7
	c.Status = StatusInactive
	later := created.Add(time.Hour)
	updated := c.Apply(Input{Name: "B", Email: "b@b.com", Phone: "2"}, later)

	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, StatusInactive, updated.Status, "empty status keeps the current one")
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
}

func TestSameEmail(t *testing.T) {
	assert.True(t, SameEmail("John@Example.com", " john@example.com"))
	assert.False(t, SameEmail("john@example.com", "jane@example.com"))
}
