package parser

import (
	"strconv"
	"strings"
)

// Number extracts a numeric value from an arbitrarily shaped response node.
// It is total: it returns the value and true, or zero and false, and never
// panics. Lists recurse and yield the first parseable element; maps yield
// their "#text" or "value" entry.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case []any:
		for _, item := range t {
			if f, ok := Number(item); ok {
				return f, true
			}
		}
		return 0, false
	case map[string]any:
		if inner, ok := t["#text"]; ok {
			return Number(inner)
		}
		if inner, ok := t["value"]; ok {
			return Number(inner)
		}
		return 0, false
	}
	return 0, false
}

func numberOrZero(v any) float64 {
	f, ok := Number(v)
	if !ok {
		return 0
	}
	return f
}
