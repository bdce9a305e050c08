package bluewriter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bluewriter/bluewriter/pkg/types"
)

// arguments wraps a tool call's argument map. Missing or mistyped required
// arguments are InvalidInput errors.
type arguments map[string]any

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

// number returns an optional numeric argument.
func (a arguments) number(name string) (float64, bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, false, types.Invalid("%s: %v", name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, types.Invalid("%s must be a finite number", name)
	}
	return f, true, nil
}

// requireNumber returns a required numeric argument.
func (a arguments) requireNumber(name string) (float64, error) {
	f, ok, err := a.number(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, types.Invalid("%s argument is required", name)
	}
	return f, nil
}

// id returns a required integer argument.
func (a arguments) id(name string) (int64, error) {
	f, err := a.requireNumber(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, types.Invalid("%s must be an integer, got %v", name, f)
	}
	return int64(f), nil
}

// integer returns an optional integer argument or def.
func (a arguments) integer(name string, def int) (int, error) {
	f, ok, err := a.number(name)
	if err != nil || !ok {
		return def, err
	}
	if f != math.Trunc(f) {
		return 0, types.Invalid("%s must be an integer, got %v", name, f)
	}
	return int(f), nil
}

// str returns an optional string argument.
func (a arguments) str(name string) (string, bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, types.Invalid("%s must be a string, got %T", name, v)
	}
	return s, true, nil
}

// optStr returns a pointer to the string argument, or nil when absent.
func (a arguments) optStr(name string) (*string, error) {
	s, ok, err := a.str(name)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// boolean returns an optional boolean argument, false when absent.
func (a arguments) boolean(name string) (bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, types.Invalid("%s must be a boolean, got %T", name, v)
	}
	return b, nil
}

// ids returns a required array of integers.
func (a arguments) ids(name string) ([]int64, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, types.Invalid("%s argument is required", name)
	}
	switch arr := v.(type) {
	case []int64:
		return arr, nil
	case []any:
		out := make([]int64, len(arr))
		for i, elem := range arr {
			f, err := toFloat64(elem)
			if err != nil || f != math.Trunc(f) {
				return nil, types.Invalid("%s[%d] is not an integer", name, i)
			}
			out[i] = int64(f)
		}
		return out, nil
	default:
		return nil, types.Invalid("%s must be an array, got %T", name, v)
	}
}

// strs returns an optional array of strings.
func (a arguments) strs(name string) ([]string, bool, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, false, nil
	}
	switch arr := v.(type) {
	case []string:
		return arr, true, nil
	case []any:
		out := make([]string, len(arr))
		for i, elem := range arr {
			s, ok := elem.(string)
			if !ok {
				return nil, false, types.Invalid("%s[%d] is not a string", name, i)
			}
			out[i] = s
		}
		return out, true, nil
	default:
		return nil, false, types.Invalid("%s must be an array, got %T", name, v)
	}
}
