package forms

import (
	"fmt"
	"maps"
	"regexp"
	"sync"
)

type control struct {
	field   Field
	pattern *regexp.Regexp
	value   any
	touched bool
	dirty   bool
}

// Form is the input model built from a schema: one control per visible
// field. Hidden fields stay in Fields but never get a control.
type Form struct {
	Title       string
	Description string
	SubmitText  string
	ResetText   string

	mu       sync.Mutex
	fields   []Field
	order    []string
	controls map[string]*control
}

// New normalizes schema and builds its form.
func New(schema Schema) (*Form, error) {
	fields, err := Normalize(schema.Fields)
	if err != nil {
		return nil, err
	}

	f := &Form{
		Title:       schema.Title,
		Description: schema.Description,
		SubmitText:  schema.SubmitText,
		ResetText:   schema.ResetText,
		fields:      fields,
		controls:    make(map[string]*control),
	}
	for _, field := range fields {
		if field.Hidden {
			continue
		}
		c := &control{field: field, value: field.Default()}
		if field.Pattern != "" {
			// Normalize already compiled it once.
			c.pattern, _ = compilePattern(field.Pattern)
		}
		if field.Value != nil {
			v, err := coerce(field.Type, field.Value)
			if err != nil {
				return nil, &SchemaError{Key: field.Key, Reason: "initial value: " + err.Error()}
			}
			c.value = v
		}
		f.controls[field.Key] = c
		f.order = append(f.order, field.Key)
	}
	return f, nil
}

// Fields returns every processed field, hidden ones included.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// VisibleFields returns the fields that have a control.
func (f *Form) VisibleFields() []Field {
	out := make([]Field, 0, len(f.order))
	for _, field := range f.fields {
		if !field.Hidden {
			out = append(out, field)
		}
	}
	return out
}

// HiddenFields returns the fields excluded from the input model.
func (f *Form) HiddenFields() []Field {
	var out []Field
	for _, field := range f.fields {
		if field.Hidden {
			out = append(out, field)
		}
	}
	return out
}

// HasControl reports whether key is a visible field.
func (f *Form) HasControl(key string) bool {
	_, ok := f.controls[key]
	return ok
}

// Value returns the current value of key.
func (f *Form) Value(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.controls[key]
	if !ok {
		return nil, false
	}
	return c.value, true
}

// Set assigns a value to a visible field, converting it to the field type,
// and marks the control dirty.
func (f *Form) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setLocked(key, value)
}

// SetValues assigns every value whose key has a control. Keys without a
// control, hidden fields included, are ignored.
func (f *Form) SetValues(values map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.order {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := f.setLocked(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) setLocked(key string, value any) error {
	c, ok := f.controls[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	v, err := coerce(c.field.Type, value)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	c.value = v
	c.dirty = true
	return nil
}

// Values returns the current value of every visible field.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valuesLocked()
}

func (f *Form) valuesLocked() map[string]any {
	out := make(map[string]any, len(f.controls))
	for key, c := range f.controls {
		out[key] = c.value
	}
	return out
}

// Errors validates every visible field without touching it.
func (f *Form) Errors() []FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorsLocked()
}

func (f *Form) errorsLocked() []FieldError {
	var errs []FieldError
	for _, key := range f.order {
		c := f.controls[key]
		if rule := validateValue(c.field, c.pattern, c.value); rule != "" {
			errs = append(errs, FieldError{
				Key:     key,
				Label:   c.field.DisplayLabel(),
				Type:    c.field.Type,
				Value:   c.value,
				Rule:    rule,
				Message: message(c.field, rule),
			})
		}
	}
	return errs
}

// Valid reports whether every visible field passes validation.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

// ValidateField marks key touched and reports whether it is valid.
// Unknown keys are never valid.
func (f *Form) ValidateField(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.controls[key]
	if !ok {
		return false
	}
	c.touched = true
	return validateValue(c.field, c.pattern, c.value) == ""
}

// Validate marks every control touched and dirty and reports validity.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markAllTouchedLocked()
	return len(f.errorsLocked()) == 0
}

// FieldError returns the message for key once the control has been
// touched, or "" when it is untouched or valid.
func (f *Form) FieldError(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.controls[key]
	if !ok || !c.touched {
		return ""
	}
	if rule := validateValue(c.field, c.pattern, c.value); rule != "" {
		return message(c.field, rule)
	}
	return ""
}

// Touched reports whether key has been touched.
func (f *Form) Touched(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.controls[key]
	return ok && c.touched
}

// Dirty reports whether key has been changed since the last reset.
func (f *Form) Dirty(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.controls[key]
	return ok && c.dirty
}

// Submit returns a copy of the visible values when the form is valid.
// Otherwise it marks every control touched and returns a *ValidationError.
func (f *Form) Submit() (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if errs := f.errorsLocked(); len(errs) > 0 {
		f.markAllTouchedLocked()
		return nil, &ValidationError{Errors: errs}
	}
	return maps.Clone(f.valuesLocked()), nil
}

// Reset puts every control back to its type default and clears the
// touched and dirty marks.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.controls {
		c.value = c.field.Default()
		c.touched = false
		c.dirty = false
	}
}

func (f *Form) markAllTouchedLocked() {
	for _, c := range f.controls {
		c.touched = true
		c.dirty = true
	}
}

// Summary is a snapshot of the form state.
type Summary struct {
	Valid    bool           `json:"valid"`
	Touched  bool           `json:"touched"`
	Dirty    bool           `json:"dirty"`
	Total    int            `json:"total"`
	Visible  int            `json:"visible"`
	Hidden   int            `json:"hidden"`
	Required int            `json:"required"`
	Values   map[string]any `json:"formData"`
	Errors   []FieldError   `json:"errors,omitempty"`
}

// Summary describes the current state of the form.
func (f *Form) Summary() Summary {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Summary{
		Total:   len(f.fields),
		Visible: len(f.order),
		Hidden:  len(f.fields) - len(f.order),
		Values:  f.valuesLocked(),
		Errors:  f.errorsLocked(),
	}
	s.Valid = len(s.Errors) == 0
	for _, c := range f.controls {
		if c.field.Required {
			s.Required++
		}
		s.Touched = s.Touched || c.touched
		s.Dirty = s.Dirty || c.dirty
	}
	return s
}
