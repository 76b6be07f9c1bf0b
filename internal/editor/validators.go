package editor

import (
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"
)

// ValidationError is the reason an input was refused.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validator checks a value before it is committed. A nil value always
// passes.
type Validator interface {
	Validate(cell Cell, value any) error
}

// TextValidator checks the length of text and that it matches a pattern.
// Negative lengths and a nil Pattern are not checked.
type TextValidator struct {
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// NewTextValidator returns a validator that accepts any text.
func NewTextValidator() *TextValidator {
	return &TextValidator{MinLength: -1, MaxLength: -1}
}

func (v *TextValidator) Validate(_ Cell, value any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return invalidf("Input must be valid text")
	}
	n := utf8.RuneCountInString(s)
	switch {
	case v.MinLength >= 0 && n < v.MinLength:
		return invalidf("Text length must be greater than %d", v.MinLength)
	case v.MaxLength >= 0 && n > v.MaxLength:
		return invalidf("Text length must be less than %d", v.MaxLength)
	case v.Pattern != nil && !v.Pattern.MatchString(s):
		return invalidf("Text doesn't match the required pattern")
	}
	return nil
}

// NumberValidator checks that a number lies in [Min, Max]. NaN bounds are
// not checked.
type NumberValidator struct {
	Min float64
	Max float64
}

// NewNumberValidator returns a validator that accepts any number.
func NewNumberValidator() *NumberValidator {
	return &NumberValidator{Min: math.NaN(), Max: math.NaN()}
}

func (v *NumberValidator) Validate(_ Cell, value any) error {
	if value == nil {
		return nil
	}
	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) {
		return invalidf("Input must be valid number")
	}
	return checkRange(f, v.Min, v.Max)
}

// IntegerValidator checks that a value is a whole number in [Min, Max].
// NaN bounds are not checked.
type IntegerValidator struct {
	Min float64
	Max float64
}

// NewIntegerValidator returns a validator that accepts any integer.
func NewIntegerValidator() *IntegerValidator {
	return &IntegerValidator{Min: math.NaN(), Max: math.NaN()}
}

func (v *IntegerValidator) Validate(_ Cell, value any) error {
	if value == nil {
		return nil
	}
	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) || f != math.Trunc(f) {
		return invalidf("Input must be valid integer")
	}
	return checkRange(f, v.Min, v.Max)
}

func checkRange(f, lo, hi float64) error {
	switch {
	case !math.IsNaN(lo) && f < lo:
		return invalidf("Input must be greater than %s", formatBound(lo))
	case !math.IsNaN(hi) && f > hi:
		return invalidf("Input must be less than %s", formatBound(hi))
	}
	return nil
}

func formatBound(f float64) string {
	return fmt.Sprint(f)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}
