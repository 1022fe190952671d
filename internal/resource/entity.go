// Package resource defines the OctoFit list resources (leaderboard, teams,
// workouts) and binds each one to a list controller.
package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Entity is one record of a list resource. Its schema is not fixed; kinds
// read the fields they know about and fall back when they are absent.
type Entity map[string]any

// Lookup returns the first of keys holding a non-null value.
func (e Entity) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := e[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text returns the first non-null field of keys as text, or "".
func (e Entity) Text(keys ...string) string {
	v, ok := e.Lookup(keys...)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// TextOr is Text with a fallback for missing fields.
func (e Entity) TextOr(fallback string, keys ...string) string {
	if _, ok := e.Lookup(keys...); !ok {
		return fallback
	}
	return e.Text(keys...)
}

// FormatValue renders a decoded JSON value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// truthy mirrors how the web client decided whether a field was worth showing.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case bool:
		return val
	default:
		return true
	}
}
