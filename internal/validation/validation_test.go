package validation

import (
	"regexp"
	"testing"
)

func TestValidate_RequiredMissing(t *testing.T) {
	errs := Validate(map[string]any{}, Schema{
		"name": {Required: true, Type: TypeString},
	})
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(errs))
	}
	if errs[0].Field != "name" {
		t.Fatalf("error should name the field, got %q", errs[0].Field)
	}
}

func TestValidate_RequiredStopsFurtherChecks(t *testing.T) {
	// empty string is both a required violation and a would-be min violation;
	// only the required error may be reported
	errs := Validate(map[string]any{"name": ""}, Schema{
		"name": {Required: true, Type: TypeString, Min: Num(3)},
	})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestValidate_OptionalEmptySkipped(t *testing.T) {
	errs := Validate(map[string]any{"website": ""}, Schema{
		"website": {Type: TypeURL},
	})
	if len(errs) != 0 {
		t.Fatalf("empty optional field must pass, got %v", errs)
	}
}

func TestValidate_NumberBounds(t *testing.T) {
	errs := Validate(map[string]any{"age": float64(-1)}, Schema{
		"age": {Type: TypeNumber, Min: Num(0)},
	})
	if len(errs) != 1 {
		t.Fatalf("expected min violation, got %v", errs)
	}

	errs = Validate(map[string]any{"age": float64(5)}, Schema{
		"age": {Type: TypeNumber, Min: Num(0), Max: Num(10)},
	})
	if len(errs) != 0 {
		t.Fatalf("in-range number must pass, got %v", errs)
	}
}

func TestValidate_StringLengthBounds(t *testing.T) {
	errs := Validate(map[string]any{"code": "ab"}, Schema{
		"code": {Type: TypeString, Min: Num(3), Max: Num(5)},
	})
	if len(errs) != 1 {
		t.Fatalf("expected length violation, got %v", errs)
	}
}

func TestValidate_TypeMismatchStopsBounds(t *testing.T) {
	errs := Validate(map[string]any{"age": "not-a-number"}, Schema{
		"age": {Type: TypeNumber, Min: Num(0)},
	})
	if len(errs) != 1 {
		t.Fatalf("type mismatch should yield one error for the field, got %v", errs)
	}
	if errs[0].Message != "must be a number" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestValidate_EmailAndURLAndDate(t *testing.T) {
	errs := Validate(map[string]any{
		"email":   "not-an-email",
		"website": "://bad",
		"day":     "2025-13-99",
	}, Schema{
		"email":   {Type: TypeEmail},
		"website": {Type: TypeURL},
		"day":     {Type: TypeDate},
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}

	errs = Validate(map[string]any{
		"email":   "ops@example.com",
		"website": "https://example.com/admin",
		"day":     "2025-06-01",
	}, Schema{
		"email":   {Type: TypeEmail},
		"website": {Type: TypeURL},
		"day":     {Type: TypeDate},
	})
	if len(errs) != 0 {
		t.Fatalf("valid values must pass, got %v", errs)
	}
}

func TestValidate_Pattern(t *testing.T) {
	errs := Validate(map[string]any{"sku": "abc"}, Schema{
		"sku": {Type: TypeString, Pattern: regexp.MustCompile(`^[A-Z]{3}-\d+$`)},
	})
	if len(errs) != 1 {
		t.Fatalf("expected pattern violation, got %v", errs)
	}
}

func TestValidate_CustomMessageVerbatim(t *testing.T) {
	errs := Validate(map[string]any{"qty": float64(7)}, Schema{
		"qty": {Type: TypeNumber, Custom: func(v any) string {
			if n, _ := v.(float64); int(n)%2 != 0 {
				return "qty must be even"
			}
			return ""
		}},
	})
	if len(errs) != 1 || errs[0].Message != "qty must be even" {
		t.Fatalf("custom message not passed through: %v", errs)
	}
}

func TestValidate_CollectsAcrossFields(t *testing.T) {
	errs := Validate(map[string]any{"age": float64(-1)}, Schema{
		"name": {Required: true, Type: TypeString},
		"age":  {Type: TypeNumber, Min: Num(0)},
	})
	if len(errs) != 2 {
		t.Fatalf("all field errors must be returned together, got %v", errs)
	}
}

func TestValidate_UnknownKeysIgnored(t *testing.T) {
	errs := Validate(map[string]any{"extra": 123, "name": "ok"}, Schema{
		"name": {Required: true, Type: TypeString},
	})
	if len(errs) != 0 {
		t.Fatalf("unknown payload keys must not be rejected, got %v", errs)
	}
}
