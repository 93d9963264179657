package forms

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalize converts descriptors into Fields. It fails with ErrNoFields on
// an empty list and with a *SchemaError on a missing or duplicate key, an
// unknown type, a bad pattern or a negative length bound.
func Normalize(descriptors []Descriptor) ([]Field, error) {
	if len(descriptors) == 0 {
		return nil, ErrNoFields
	}

	fields := make([]Field, 0, len(descriptors))
	seen := make(map[string]struct{}, len(descriptors))
	for i, d := range descriptors {
		f, err := NormalizeOne(d)
		if err != nil {
			if se, ok := err.(*SchemaError); ok {
				se.Index = i
			}
			return nil, err
		}
		if _, dup := seen[f.Key]; dup {
			return nil, &SchemaError{Index: i, Key: f.Key, Reason: "duplicate key"}
		}
		seen[f.Key] = struct{}{}
		fields = append(fields, f)
	}
	return fields, nil
}

// NormalizeOne converts a single descriptor.
func NormalizeOne(d Descriptor) (Field, error) {
	key := strings.TrimSpace(d.Field)
	if key == "" {
		key = strings.TrimSpace(d.Key)
	}
	if key == "" {
		return Field{}, &SchemaError{Reason: "missing field key"}
	}

	typ := FieldType(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if typ == "" {
		typ = TypeText
	}
	if !typ.Valid() {
		return Field{}, &SchemaError{Key: key, Reason: fmt.Sprintf("unknown type %q", d.Type)}
	}

	if d.Pattern != "" {
		if _, err := compilePattern(d.Pattern); err != nil {
			return Field{}, &SchemaError{Key: key, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
	}
	for name, bound := range map[string]*int{"minLength": d.MinLength, "maxLength": d.MaxLength} {
		if bound != nil && *bound < 0 {
			return Field{}, &SchemaError{Key: key, Reason: name + " cannot be negative"}
		}
	}

	return Field{
		Key:         key,
		Label:       d.Label,
		Type:        typ,
		Hidden:      bool(d.Hidden),
		Required:    bool(d.Mandatory) || bool(d.Required),
		Options:     d.Options,
		Placeholder: d.Placeholder,
		CSSClass:    d.CSSClass,
		MinLength:   d.MinLength,
		MaxLength:   d.MaxLength,
		Pattern:     d.Pattern,
		Min:         d.Min,
		Max:         d.Max,
		Value:       d.Value,
	}, nil
}

// Descriptors converts fields back into canonical descriptors.
func Descriptors(fields []Field) []Descriptor {
	out := make([]Descriptor, len(fields))
	for i, f := range fields {
		out[i] = f.Descriptor()
	}
	return out
}

// compilePattern anchors p so it must match the whole value.
func compilePattern(p string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(p, "^") {
		p = "^(?:" + p
	} else {
		p = "^(?:" + p[1:]
	}
	if strings.HasSuffix(p, "$") && !strings.HasSuffix(p, `\$`) {
		p = p[:len(p)-1] + ")$"
	} else {
		p += ")$"
	}
	return regexp.Compile(p)
}
