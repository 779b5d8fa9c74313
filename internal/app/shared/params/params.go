// Package params reads loosely typed JSON action parameters.
package params

import (
	"encoding/json"
	"math"
)

// Number returns params[key] as a float64. JSON numbers decode as float64;
// Go callers may also pass integers or json.Number.
func Number(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func String(params map[string]any, key string) (string, bool) {
	s, ok := params[key].(string)
	return s, ok
}

// Object returns params[key] when it is a JSON object.
func Object(params map[string]any, key string) (map[string]any, bool) {
	m, ok := params[key].(map[string]any)
	return m, ok
}

func UnknownAction(name string) map[string]any {
	return map[string]any{"error": "unknown action: " + name}
}
