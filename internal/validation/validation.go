package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"backoffice/internal/domain"
)

// Type names the primitive or format a field must satisfy.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeEmail   Type = "email"
	TypeURL     Type = "url"
	TypeDate    Type = "date"
)

// Rule declares the constraints for one schema field. Custom returns "" when
// the value is acceptable, otherwise the message to report verbatim.
type Rule struct {
	Required bool
	Type     Type
	Min      *float64
	Max      *float64
	Pattern  *regexp.Regexp
	Custom   func(value any) string
}

// Schema maps field names to rules. A schema validates, it does not project:
// payload keys absent from the schema are left alone.
type Schema map[string]Rule

// permissive on purpose; strict RFC parsing rejects addresses users actually have
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Num returns a pointer for use as a Rule bound.
func Num(v float64) *float64 { return &v }

// Validate checks data against schema and returns every violation found.
// All fields are validated independently; it never fails fast and never panics.
func Validate(data map[string]any, schema Schema) []domain.FieldError {
	var errs []domain.FieldError

	for field, rule := range schema {
		value, present := data[field]

		if isEmpty(value, present) {
			if rule.Required {
				errs = append(errs, domain.FieldError{Field: field, Message: field + " is required"})
			}
			continue
		}

		if rule.Type != "" {
			if msg := checkType(value, rule.Type); msg != "" {
				errs = append(errs, domain.FieldError{Field: field, Message: msg})
				continue
			}
		}

		errs = append(errs, checkBounds(field, value, rule)...)

		if rule.Pattern != nil {
			if s, ok := value.(string); ok && !rule.Pattern.MatchString(s) {
				errs = append(errs, domain.FieldError{Field: field, Message: field + " has an invalid format"})
			}
		}

		if rule.Custom != nil {
			if msg := rule.Custom(value); msg != "" {
				errs = append(errs, domain.FieldError{Field: field, Message: msg})
			}
		}
	}

	return errs
}

// ValidateOrError wraps Validate into a domain error carrying the full set.
func ValidateOrError(data map[string]any, schema Schema) error {
	if errs := Validate(data, schema); len(errs) > 0 {
		return domain.ValidationError{Fields: errs}
	}
	return nil
}

func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

func checkType(value any, t Type) string {
	switch t {
	case TypeString:
		if _, ok := value.(string); !ok {
			return "must be a string"
		}
	case TypeNumber:
		if _, ok := asNumber(value); !ok {
			return "must be a number"
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return "must be a boolean"
		}
	case TypeEmail:
		s, ok := value.(string)
		if !ok || !emailPattern.MatchString(s) {
			return "must be a valid email address"
		}
	case TypeURL:
		s, ok := value.(string)
		if !ok {
			return "must be a valid URL"
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "must be a valid URL"
		}
	case TypeDate:
		s, ok := value.(string)
		if !ok || !parseableDate(s) {
			return "must be a valid date"
		}
	}
	return ""
}

// checkBounds applies Min/Max: numeric compare for numbers, length otherwise.
func checkBounds(field string, value any, rule Rule) []domain.FieldError {
	if rule.Min == nil && rule.Max == nil {
		return nil
	}

	var errs []domain.FieldError
	if n, ok := asNumber(value); ok && rule.Type == TypeNumber {
		if rule.Min != nil && n < *rule.Min {
			errs = append(errs, domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must be at least %v", field, *rule.Min),
			})
		}
		if rule.Max != nil && n > *rule.Max {
			errs = append(errs, domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must be at most %v", field, *rule.Max),
			})
		}
		return errs
	}

	if s, ok := value.(string); ok {
		length := float64(len([]rune(s)))
		if rule.Min != nil && length < *rule.Min {
			errs = append(errs, domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must be at least %v characters", field, *rule.Min),
			})
		}
		if rule.Max != nil && length > *rule.Max {
			errs = append(errs, domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s must be at most %v characters", field, *rule.Max),
			})
		}
	}
	return errs
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func parseableDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
