package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Amount coerces a heterogeneous amount value into a non-negative float64.
// Strings may carry currency punctuation and thousands separators
// ("KSh 1,200.50" -> 1200.50). Nil, unparseable and negative inputs
// all coerce to 0. Never panics.
func Amount(v interface{}) float64 {
	var amount float64

	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		amount = val
	case float32:
		amount = float64(val)
	case int:
		amount = float64(val)
	case int64:
		amount = float64(val)
	case json.Number:
		amount, _ = val.Float64()
	case string:
		amount = parseAmountString(val)
	default:
		return 0
	}

	if amount < 0 {
		return 0
	}
	return amount
}

// parseAmountString strips everything that is not a digit, decimal point or
// leading minus sign before parsing. Commas are treated as thousands
// separators and dropped.
func parseAmountString(s string) float64 {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// epochMillisThreshold separates epoch-second values from epoch-millisecond
// values. Anything above it is interpreted as milliseconds.
const epochMillisThreshold = 1e12

// Date coerces a heterogeneous timestamp value into a time.Time. Accepted
// shapes: time.Time, a seconds-based timestamp object ({"seconds": n} or
// {"_seconds": n}), epoch seconds or milliseconds as a number, and RFC3339
// or date-only strings. The second return value reports whether any shape
// matched.
func Date(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case float64:
		return fromEpoch(val), true
	case int64:
		return fromEpoch(float64(val)), true
	case int:
		return fromEpoch(float64(val)), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f), true
	case string:
		return parseDateString(val)
	case map[string]interface{}:
		for _, key := range []string{"seconds", "_seconds"} {
			if secs, ok := val[key]; ok {
				return Date(secs)
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func fromEpoch(f float64) time.Time {
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f))
	}
	return time.Unix(int64(f), 0)
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		time.DateOnly,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Epoch value encoded as a string.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f), true
	}

	return time.Time{}, false
}

// Label converts an identifier-style grouping key (camelCase or snake_case)
// into a Title Case human label, so raw field names never leak into
// category labels: "creditCard" -> "Credit Card", "mobile_money" ->
// "Mobile Money".
func Label(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}

// Name resolves a counterparty or salesperson reference that may be a plain
// string or an object carrying a name field. Unresolved values return the
// given fallback.
func Name(v interface{}, fallback string) string {
	switch val := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	case map[string]interface{}:
		for _, key := range []string{"name", "full_name", "fullName", "displayName"} {
			if raw, ok := val[key]; ok {
				if s, ok := raw.(string); ok {
					if trimmed := strings.TrimSpace(s); trimmed != "" {
						return trimmed
					}
				}
			}
		}
	}
	return fallback
}
