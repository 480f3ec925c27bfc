package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// firstPresent returns the first non-null value among keys
func firstPresent(m map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(v interface{}) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// idOf reads a plain id, a populated document or an extended-JSON $oid
func idOf(v interface{}) string {
	switch typed := v.(type) {
	case map[string]interface{}:
		if oid := str(typed["$oid"]); oid != "" {
			return oid
		}
		return idOf(firstPresent(typed, "_id", "id"))
	default:
		return str(v)
	}
}

func intVal(v interface{}) (int, bool) {
	switch typed := v.(type) {
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return int(n), true
		}
		if f, err := typed.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	case float64:
		return int(typed), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}

func decimalVal(v interface{}) decimal.Decimal {
	switch typed := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(typed.String()); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(typed)
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(typed), ",", "")
		if d, err := decimal.NewFromString(cleaned); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// timeVal parses ISO strings or epoch numbers; anything else is the zero time
func timeVal(v interface{}) time.Time {
	switch typed := v.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.UTC()
			}
		}
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return epoch(n)
		}
	case float64:
		return epoch(int64(typed))
	case map[string]interface{}:
		return timeVal(typed["$date"])
	}
	return time.Time{}
}

func epoch(n int64) time.Time {
	if n > 1e12 || n < -1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
