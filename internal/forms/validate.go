package forms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation rule names reported in FieldError.Rule.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minlength"
	RuleMaxLength = "maxlength"
	RulePattern   = "pattern"
	RuleMin       = "min"
	RuleMax       = "max"
)

// validateValue returns the first rule value breaks, or "" when valid.
// Rules other than required are skipped for empty values.
func validateValue(f Field, pattern *regexp.Regexp, value any) string {
	if isEmpty(f.Type, value) {
		if f.Required {
			return RuleRequired
		}
		return ""
	}

	if s, ok := value.(string); ok {
		n := utf8.RuneCountInString(s)
		if f.Type == TypeEmail && !emailPattern.MatchString(s) {
			return RuleEmail
		}
		if f.MinLength != nil && n < *f.MinLength {
			return RuleMinLength
		}
		if f.MaxLength != nil && n > *f.MaxLength {
			return RuleMaxLength
		}
		if pattern != nil && !pattern.MatchString(s) {
			return RulePattern
		}
	}

	if num, ok := value.(float64); ok {
		if f.Min != nil && num < *f.Min {
			return RuleMin
		}
		if f.Max != nil && num > *f.Max {
			return RuleMax
		}
	}
	return ""
}

func isEmpty(t FieldType, value any) bool {
	switch t {
	case TypeCheckbox:
		b, _ := value.(bool)
		return !b
	case TypeNumber:
		return value == nil
	}
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// message renders the user-facing text for rule on f.
func message(f Field, rule string) string {
	label := f.DisplayLabel()
	switch rule {
	case RuleRequired:
		if f.Type == TypeCheckbox {
			return fmt.Sprintf("Please check %s to continue", label)
		}
		return fmt.Sprintf("%s is required", label)
	case RuleEmail:
		return "Please enter a valid email address"
	case RuleMinLength:
		return fmt.Sprintf("%s must be at least %d characters long", label, *f.MinLength)
	case RuleMaxLength:
		return fmt.Sprintf("%s cannot exceed %d characters", label, *f.MaxLength)
	case RulePattern:
		if f.Type == TypeEmail {
			return "Please enter a valid email address"
		}
		return fmt.Sprintf("%s format is invalid", label)
	case RuleMin:
		return fmt.Sprintf("%s must be at least %s", label, formatNumber(*f.Min))
	case RuleMax:
		return fmt.Sprintf("%s cannot exceed %s", label, formatNumber(*f.Max))
	}
	return fmt.Sprintf("%s is invalid (%s)", label, rule)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coerce converts an incoming value to the representation kept for t:
// bool for checkboxes, nil or float64 for numbers, strings for text-like
// fields. Select and radio values are kept as given.
func coerce(t FieldType, value any) (any, error) {
	switch t {
	case TypeCheckbox:
		switch v := value.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "on", "yes", "1":
				return true, nil
			case "false", "off", "no", "0", "":
				return false, nil
			}
		}
		return nil, fmt.Errorf("checkbox value must be a boolean, got %T", value)

	case TypeNumber:
		switch v := value.(type) {
		case nil:
			return nil, nil
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case interface{ Float64() (float64, error) }:
			return v.Float64()
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				return nil, nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("number value %q is not numeric", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("number value must be numeric, got %T", value)

	case TypeSelect, TypeRadio:
		if value == nil {
			return "", nil
		}
		return value, nil
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool, float64, float32, int, int64:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("%s value must be a string, got %T", t, value)
}
