package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Formatter turns a cell value into display text.
type Formatter func(config CellConfig) string

// FormatGeneric formats any value with FormatValue. Nil values show
// missing.
func FormatGeneric(missing string) Formatter {
	return func(config CellConfig) string {
		if config.Value == nil {
			return missing
		}
		return FormatValue(config.Value)
	}
}

// FormatFixed formats numbers with a fixed number of decimals.
func FormatFixed(digits int, missing string) Formatter {
	return numberFormatter(missing, func(v float64) string {
		return strconv.FormatFloat(v, 'f', clampDigits(digits, 0, 100), 64)
	})
}

// FormatPrecision formats numbers with digits significant digits.
func FormatPrecision(digits int, missing string) Formatter {
	return numberFormatter(missing, func(v float64) string {
		return toPrecision(v, clampDigits(digits, 1, 100))
	})
}

// FormatExponential formats numbers in exponential notation with digits
// decimals.
func FormatExponential(digits int, missing string) Formatter {
	return numberFormatter(missing, func(v float64) string {
		return trimExponent(strconv.FormatFloat(v, 'e', clampDigits(digits, 0, 100), 64))
	})
}

// FormatDate formats time values and date strings with layout.
func FormatDate(layout, missing string) Formatter {
	return func(config CellConfig) string {
		if config.Value == nil {
			return missing
		}
		t, ok := toTime(config.Value)
		if !ok {
			return FormatValue(config.Value)
		}
		return t.Format(layout)
	}
}

// FormatTime formats the time of day of time values.
func FormatTime(missing string) Formatter {
	return FormatDate(time.TimeOnly, missing)
}

func numberFormatter(missing string, format func(float64) string) Formatter {
	return func(config CellConfig) string {
		if config.Value == nil {
			return missing
		}
		v, ok := toFloat(config.Value)
		if !ok {
			return FormatValue(config.Value)
		}
		if math.IsNaN(v) {
			return "NaN"
		}
		if math.IsInf(v, 0) {
			if v > 0 {
				return "Infinity"
			}
			return "-Infinity"
		}
		return format(v)
	}
}

func clampDigits(d, lo, hi int) int {
	return max(lo, min(d, hi))
}

func toPrecision(v float64, digits int) string {
	if v == 0 {
		return strconv.FormatFloat(0, 'f', digits-1, 64)
	}
	e := strconv.FormatFloat(v, 'e', digits-1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil {
		return e
	}
	if exp < -6 || exp >= digits {
		return trimExponent(e)
	}
	return strconv.FormatFloat(v, 'f', max(0, digits-1-exp), 64)
}

// trimExponent rewrites "1.5e+05" as "1.5e+5".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	}
	return 0, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-7 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
}
