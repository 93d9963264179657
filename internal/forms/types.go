package forms

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType is the input kind of a field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeNumber   FieldType = "number"
	TypeSelect   FieldType = "select"
	TypeTextarea FieldType = "textarea"
	TypeCheckbox FieldType = "checkbox"
	TypeRadio    FieldType = "radio"
	TypeDate     FieldType = "date"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeEmail, TypePassword, TypeNumber, TypeSelect,
		TypeTextarea, TypeCheckbox, TypeRadio, TypeDate:
		return true
	}
	return false
}

// Flag is a boolean decoded from either a boolean or a string. The string
// "true" in any case is true; every other string is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Flag(parseFlag(v))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*f = Flag(parseFlag(v))
	return nil
}

func parseFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "true")
	}
	return false
}

// Option is one choice of a select or radio field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Descriptor is one schema entry as written in a schema file. Field and Key
// name the same thing, as do Mandatory and Required.
type Descriptor struct {
	Field       string    `json:"field,omitempty" yaml:"field,omitempty"`
	Key         string    `json:"key,omitempty" yaml:"key,omitempty"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Hidden      Flag      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Mandatory   Flag      `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Required    Flag      `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	CSSClass    string    `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	MinLength   *int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern     string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Value       any       `json:"value,omitempty" yaml:"value,omitempty"`
}

// Schema is a whole form definition.
type Schema struct {
	Title       string       `json:"formTitle,omitempty" yaml:"formTitle,omitempty"`
	Description string       `json:"formDescription,omitempty" yaml:"formDescription,omitempty"`
	Fields      []Descriptor `json:"fields" yaml:"fields"`
	SubmitText  string       `json:"submitButtonText,omitempty" yaml:"submitButtonText,omitempty"`
	ResetText   string       `json:"resetButtonText,omitempty" yaml:"resetButtonText,omitempty"`
}

// Field is a normalized descriptor: Hidden and Required are plain booleans
// and Key is always set.
type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Hidden      bool      `json:"hidden"`
	Required    bool      `json:"required"`
	Options     []Option  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	CSSClass    string    `json:"cssClass,omitempty"`
	MinLength   *int      `json:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	Value       any       `json:"value,omitempty"`
}

// DisplayLabel is the label, or the key when the label is empty.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// Default is the type-based initial value: false for checkboxes, nil for
// numbers and "" for everything else.
func (f Field) Default() any {
	return defaultValue(f.Type)
}

func defaultValue(t FieldType) any {
	switch t {
	case TypeCheckbox:
		return false
	case TypeNumber:
		return nil
	default:
		return ""
	}
}

// Descriptor converts f back into its canonical schema form.
func (f Field) Descriptor() Descriptor {
	return Descriptor{
		Key:         f.Key,
		Label:       f.Label,
		Type:        f.Type,
		Hidden:      Flag(f.Hidden),
		Required:    Flag(f.Required),
		Options:     f.Options,
		Placeholder: f.Placeholder,
		CSSClass:    f.CSSClass,
		MinLength:   f.MinLength,
		MaxLength:   f.MaxLength,
		Pattern:     f.Pattern,
		Min:         f.Min,
		Max:         f.Max,
		Value:       f.Value,
	}
}
