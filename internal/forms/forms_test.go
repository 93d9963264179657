package forms

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

const contactSchema = `{
  "formTitle": "Contact",
  "fields": [
    {"field": "name", "label": "Full Name", "type": "text", "mandatory": "true", "minLength": 2},
    {"field": "email", "label": "Email", "type": "email", "required": true},
    {"field": "age", "label": "Age", "type": "number", "min": 18, "max": 99},
    {"field": "agree", "label": "Terms", "type": "checkbox", "mandatory": "TRUE"},
    {"field": "internal", "label": "Internal", "type": "text", "hidden": "true"},
    {"key": "note", "label": "Note", "type": "textarea", "hidden": "no", "mandatory": "yes"}
  ]
}`

func mustSchema(t *testing.T, raw string) Schema {
	t.Helper()
	schema, err := Parse([]byte(raw), "json")
	require.NoError(t, err)
	return schema
}

func TestNormalizeFlags(t *testing.T) {
	fields, err := Normalize(mustSchema(t, contactSchema).Fields)
	require.NoError(t, err)
	require.Len(t, fields, 6)

	byKey := map[string]Field{}
	for _, f := range fields {
		byKey[f.Key] = f
	}
	assert.True(t, byKey["name"].Required)
	assert.True(t, byKey["email"].Required)
	assert.False(t, byKey["age"].Required)
	assert.True(t, byKey["agree"].Required)
	assert.True(t, byKey["internal"].Hidden)
	assert.False(t, byKey["note"].Hidden)
	assert.False(t, byKey["note"].Required, "only the string true enables a flag")
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize(mustSchema(t, contactSchema).Fields)
	require.NoError(t, err)

	second, err := Normalize(Descriptors(first))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("normalize not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrNoFields)

	tests := []struct {
		name  string
		input []Descriptor
	}{
		{"missing key", []Descriptor{{Label: "x"}}},
		{"duplicate key", []Descriptor{{Field: "a"}, {Key: "a"}}},
		{"unknown type", []Descriptor{{Field: "a", Type: "colour"}}},
		{"bad pattern", []Descriptor{{Field: "a", Pattern: "("}}},
		{"negative length", []Descriptor{{Field: "a", MinLength: intPtr(-1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			var se *SchemaError
			assert.True(t, errors.As(err, &se), "got %v", err)
		})
	}
}

func TestNormalizeDefaultsType(t *testing.T) {
	f, err := NormalizeOne(Descriptor{Key: "x", Type: "EMAIL"})
	require.NoError(t, err)
	assert.Equal(t, TypeEmail, f.Type)

	f, err = NormalizeOne(Descriptor{Key: "x"})
	require.NoError(t, err)
	assert.Equal(t, TypeText, f.Type)
}

func TestNewForm(t *testing.T) {
	_, err := New(Schema{})
	assert.ErrorIs(t, err, ErrNoFields)

	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)

	assert.Equal(t, "Contact", form.Title)
	assert.Len(t, form.Fields(), 6)
	assert.Len(t, form.VisibleFields(), 5)
	require.Len(t, form.HiddenFields(), 1)
	assert.Equal(t, "internal", form.HiddenFields()[0].Key)
	assert.False(t, form.HasControl("internal"))

	want := map[string]any{
		"name":  "",
		"email": "",
		"age":   nil,
		"agree": false,
		"note":  "",
	}
	if diff := cmp.Diff(want, form.Values()); diff != "" {
		t.Fatalf("initial values (-want +got):\n%s", diff)
	}
}

func TestInitialValue(t *testing.T) {
	form, err := New(Schema{Fields: []Descriptor{
		{Field: "age", Type: TypeNumber, Value: json.Number("42")},
		{Field: "city", Value: "Oslo"},
	}})
	require.NoError(t, err)

	age, _ := form.Value("age")
	city, _ := form.Value("city")
	assert.Equal(t, 42.0, age)
	assert.Equal(t, "Oslo", city)

	form.Reset()
	age, _ = form.Value("age")
	city, _ = form.Value("city")
	assert.Nil(t, age)
	assert.Equal(t, "", city)
}

func TestSubmitValid(t *testing.T) {
	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)

	require.NoError(t, form.SetValues(map[string]any{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"age":      "36",
		"agree":    "on",
		"internal": "ignored",
	}))

	data, err := form.Submit()
	require.NoError(t, err)

	want := map[string]any{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
		"age":   36.0,
		"agree": true,
		"note":  "",
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("submitted data (-want +got):\n%s", diff)
	}
	assert.NotContains(t, data, "internal")
}

func TestSubmitInvalid(t *testing.T) {
	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)
	require.NoError(t, form.Set("email", "not-an-email"))

	data, err := form.Submit()
	assert.Nil(t, data)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":  "Full Name is required",
		"email": "Please enter a valid email address",
		"agree": "Please check Terms to continue",
	}, verr.Fields())
	assert.Equal(t, "Please fix 3 validation errors before submitting.", verr.Message())

	for _, key := range []string{"name", "email", "age", "agree", "note"} {
		assert.True(t, form.Touched(key), key)
		assert.True(t, form.Dirty(key), key)
	}
	assert.Equal(t, "Full Name is required", form.FieldError("name"))
	assert.Equal(t, "", form.FieldError("age"))
}

func TestSetRejectsUnknownAndHidden(t *testing.T) {
	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)

	assert.ErrorIs(t, form.Set("missing", "x"), ErrUnknownField)
	assert.ErrorIs(t, form.Set("internal", "x"), ErrUnknownField)
	assert.Error(t, form.Set("age", "old"))
	assert.Error(t, form.Set("agree", "maybe"))
}

func TestValidationRules(t *testing.T) {
	form, err := New(Schema{Fields: []Descriptor{
		{Field: "code", Label: "Code", Pattern: "[A-Z]{3}", MinLength: intPtr(3), MaxLength: intPtr(3)},
		{Field: "qty", Label: "Quantity", Type: TypeNumber, Min: floatPtr(1), Max: floatPtr(10.5)},
	}})
	require.NoError(t, err)

	tests := []struct {
		key   string
		value any
		want  string
	}{
		{"code", "AB", "Code must be at least 3 characters long"},
		{"code", "ABCD", "Code cannot exceed 3 characters"},
		{"code", "abc", "Code format is invalid"},
		{"code", "ABC", ""},
		{"code", "", ""},
		{"qty", 0, "Quantity must be at least 1"},
		{"qty", 11, "Quantity cannot exceed 10.5"},
		{"qty", "5", ""},
		{"qty", "", ""},
	}
	for _, tt := range tests {
		require.NoError(t, form.Set(tt.key, tt.value))
		assert.Equal(t, tt.want == "", form.ValidateField(tt.key), "%s=%v", tt.key, tt.value)
		assert.Equal(t, tt.want, form.FieldError(tt.key), "%s=%v", tt.key, tt.value)
	}
}

func TestFieldErrorRequiresTouch(t *testing.T) {
	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)

	assert.Equal(t, "", form.FieldError("name"))
	assert.False(t, form.Valid())
	assert.False(t, form.ValidateField("name"))
	assert.Equal(t, "Full Name is required", form.FieldError("name"))
	assert.False(t, form.ValidateField("internal"))
}

func TestResetAndSummary(t *testing.T) {
	form, err := New(mustSchema(t, contactSchema))
	require.NoError(t, err)

	require.NoError(t, form.Set("name", "Ada"))
	assert.False(t, form.Validate())

	s := form.Summary()
	assert.False(t, s.Valid)
	assert.True(t, s.Touched)
	assert.True(t, s.Dirty)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 5, s.Visible)
	assert.Equal(t, 1, s.Hidden)
	assert.Equal(t, 3, s.Required)
	assert.NotEmpty(t, s.Errors)

	form.Reset()
	s = form.Summary()
	assert.False(t, s.Touched)
	assert.False(t, s.Dirty)
	assert.Equal(t, "", s.Values["name"])
	assert.Equal(t, false, s.Values["agree"])
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		typ     FieldType
		in      any
		want    any
		wantErr bool
	}{
		{TypeCheckbox, true, true, false},
		{TypeCheckbox, "off", false, false},
		{TypeCheckbox, nil, false, false},
		{TypeCheckbox, 3, nil, true},
		{TypeNumber, 3, 3.0, false},
		{TypeNumber, "2.5", 2.5, false},
		{TypeNumber, json.Number("7"), 7.0, false},
		{TypeNumber, " ", nil, false},
		{TypeNumber, "x", nil, true},
		{TypeSelect, 2.0, 2.0, false},
		{TypeRadio, nil, "", false},
		{TypeText, 12, "12", false},
		{TypeText, json.Number("12"), "12", false},
		{TypeDate, []string{"x"}, nil, true},
	}
	for _, tt := range tests {
		got, err := coerce(tt.typ, tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%s %v", tt.typ, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %v", tt.typ, tt.in)
	}
}

func TestParseYAMLFlags(t *testing.T) {
	schema, err := Parse([]byte(`
formTitle: Survey
fields:
  - key: a
    hidden: "True"
  - key: b
    required: true
  - key: c
    mandatory: "false"
`), "yaml")
	require.NoError(t, err)

	fields, err := Normalize(schema.Fields)
	require.NoError(t, err)
	assert.True(t, fields[0].Hidden)
	assert.True(t, fields[1].Required)
	assert.False(t, fields[2].Required)
	assert.Equal(t, "Survey", schema.Title)
}
