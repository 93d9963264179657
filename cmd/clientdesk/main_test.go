package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clientdesk/internal/client"
	"clientdesk/internal/config"
	"clientdesk/internal/forms"
	"clientdesk/internal/notify"
	"clientdesk/internal/server"
	"clientdesk/internal/service"
	"clientdesk/internal/store"
)

// fakePrompter answers from queues and, like a terminal prompt, re-asks
// while the validator rejects the answer.
type fakePrompter struct {
	strings  []string
	bools    []bool
	selects  []int
	rejected []string
}

func (p *fakePrompter) nextString(validate func(string) error) (string, error) {
	for len(p.strings) > 0 {
		ans := p.strings[0]
		p.strings = p.strings[1:]
		if validate == nil {
			return ans, nil
		}
		if err := validate(ans); err != nil {
			p.rejected = append(p.rejected, err.Error())
			continue
		}
		return ans, nil
	}
	return "", errors.New("out of answers")
}

func (p *fakePrompter) Input(_, _, _ string, validate func(string) error) (string, error) {
	return p.nextString(validate)
}

func (p *fakePrompter) Password(_, _ string, validate func(string) error) (string, error) {
	return p.nextString(validate)
}

func (p *fakePrompter) Multiline(_, _, _ string, validate func(string) error) (string, error) {
	return p.nextString(validate)
}

func (p *fakePrompter) Confirm(_, _ string, _ bool, validate func(bool) error) (bool, error) {
	for len(p.bools) > 0 {
		ans := p.bools[0]
		p.bools = p.bools[1:]
		if err := validate(ans); err != nil {
			p.rejected = append(p.rejected, err.Error())
			continue
		}
		return ans, nil
	}
	return false, errors.New("out of answers")
}

func (p *fakePrompter) Select(_, _ string, _ []string, _ int) (int, error) {
	if len(p.selects) == 0 {
		return 0, errors.New("out of answers")
	}
	idx := p.selects[0]
	p.selects = p.selects[1:]
	return idx, nil
}

const clientSchema = `{
  "formTitle": "New client",
  "fields": [
    {"field": "name", "label": "Name", "mandatory": "true"},
    {"field": "email", "label": "Email", "type": "email", "mandatory": "true"},
    {"field": "phone", "label": "Phone", "mandatory": "true"},
    {"field": "status", "label": "Status", "type": "radio", "options": [
      {"label": "Active", "value": "active"}, {"label": "Inactive", "value": "inactive"}
    ]},
    {"field": "terms", "label": "Terms", "type": "checkbox", "mandatory": "true"},
    {"field": "ref", "label": "Ref", "hidden": "true"}
  ]
}`

func TestFillForm(t *testing.T) {
	schema, err := forms.Parse([]byte(clientSchema), "json")
	require.NoError(t, err)
	form, err := forms.New(schema)
	require.NoError(t, err)

	p := &fakePrompter{
		strings: []string{"", "Ada", "not-an-email", "ada@example.com", "555"},
		selects: []int{1},
		bools:   []bool{false, true},
	}
	values, err := fillForm(form, p)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":   "Ada",
		"email":  "ada@example.com",
		"phone":  "555",
		"status": "inactive",
		"terms":  true,
	}, values)
	assert.Equal(t, []string{
		"Name is required",
		"Please enter a valid email address",
		"Please check Terms to continue",
	}, p.rejected)

	in := clientInput(values)
	assert.Equal(t, client.Input{Name: "Ada", Email: "ada@example.com", Phone: "555", Status: client.StatusInactive}, in)
}

func TestPrintFormSummary(t *testing.T) {
	schema, err := forms.Parse([]byte(clientSchema), "json")
	require.NoError(t, err)
	form, err := forms.New(schema)
	require.NoError(t, err)

	var buf bytes.Buffer
	printFormSummary(&buf, form)
	out := buf.String()
	assert.Contains(t, out, "New client")
	assert.Contains(t, out, "ref")
	assert.Contains(t, out, "hidden")
	assert.Contains(t, out, "6 fields: 5 visible, 1 hidden, 4 required")
}

func TestRenderToast(t *testing.T) {
	out := renderToast(notify.Toast{Kind: notify.KindError, Title: "Error", Message: "Failed to load clients"})
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Failed to load clients")
}

func TestClientsCommands(t *testing.T) {
	repo := store.NewMemoryStore()
	require.NoError(t, store.SeedData(context.Background(), repo))
	svc, err := service.New(repo, nil, service.Options{UniqueEmail: true})
	require.NoError(t, err)
	handler, err := server.New(svc, zap.NewNop(), server.Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	run := func(args ...string) (string, string, error) {
		var stdout, stderr bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&stderr)
		rootCmd.SetArgs(append(args, "--server", ts.URL))
		err := rootCmd.Execute()
		return stdout.String(), stderr.String(), err
	}

	out, _, err := run("clients", "list", "--status", "inactive")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob Johnson")
	assert.NotContains(t, out, "Jane Smith")
	assert.Contains(t, out, "Status: Inactive only")
	assert.Contains(t, out, "1 of 4 clients")

	out, _, err = run("clients", "list", "--search", " SMITH ", "--status", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Smith")
	assert.NotContains(t, out, "Bob Johnson")
	assert.Contains(t, out, `Search: "SMITH"`)

	out, toasts, err := run("clients", "create", "--name", "A", "--email", "a@a.com", "--phone", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#5 A")
	assert.Contains(t, toasts, "Client created successfully")

	_, toasts, err = run("clients", "create", "--name", "B", "--email", "A@A.COM", "--phone", "2")
	require.Error(t, err)
	assert.Contains(t, toasts, "Conflict: Client with this email already exists")

	out, _, err = run("clients", "update", "5", "--status", "inactive")
	require.NoError(t, err)
	assert.Contains(t, out, "inactive")

	_, toasts, err = run("clients", "delete", "5")
	require.NoError(t, err)
	assert.Contains(t, toasts, `Client "A" deleted successfully`)

	out, _, err = run("health")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Server Status: OK"), out)
	assert.Contains(t, out, "Clients")
}

func TestServeFlagsOverrideBeforeValidation(t *testing.T) {
	t.Setenv("CLIENTDESK_SERVER_PORT", "0")
	t.Setenv("CLIENTDESK_STORE_DRIVER", "postgres")

	cfg, err := config.Read("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	require.NoError(t, serveCmd.Flags().Set("port", "8080"))
	require.NoError(t, serveCmd.Flags().Set("driver", "memory"))
	applyServeFlags(serveCmd, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.NoError(t, cfg.Validate())
}
