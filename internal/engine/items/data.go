package items

import (
	"encoding/json"
	"fmt"
)

// Snapshot payloads arrive either as the Go values ExportData produced or,
// after a JSON round trip, as []any and float64. The helpers accept both.

func number(v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case int64:
		return float32(n), nil
	case uint32:
		return float32(n), nil
	case json.Number:
		f, err := n.Float64()
		return float32(f), err
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrBadData, v)
}

func list(v any) ([]any, error) {
	switch l := v.(type) {
	case []any:
		return l, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T is not a list", ErrBadData, v)
}

func vecN(v any, out []float32) error {
	switch a := v.(type) {
	case [3]float32:
		copy(out, a[:])
		return nil
	case [4]float32:
		copy(out, a[:])
		return nil
	case []float32:
		if len(a) != len(out) {
			return fmt.Errorf("%w: want %d components, got %d", ErrBadData, len(out), len(a))
		}
		copy(out, a)
		return nil
	}
	l, err := list(v)
	if err != nil {
		return err
	}
	if len(l) != len(out) {
		return fmt.Errorf("%w: want %d components, got %d", ErrBadData, len(out), len(l))
	}
	for i, c := range l {
		if out[i], err = number(c); err != nil {
			return err
		}
	}
	return nil
}

func vec3(v any) ([3]float32, error) {
	var out [3]float32
	err := vecN(v, out[:])
	return out, err
}

func vec4(v any) ([4]float32, error) {
	var out [4]float32
	err := vecN(v, out[:])
	return out, err
}

func vec3s(v any) ([][3]float32, error) {
	if a, ok := v.([][3]float32); ok {
		return a, nil
	}
	l, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([][3]float32, len(l))
	for i, e := range l {
		if out[i], err = vec3(e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func uint32s(v any) ([]uint32, error) {
	if a, ok := v.([]uint32); ok {
		return a, nil
	}
	l, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(l))
	for i, e := range l {
		if f, ok := e.(float64); ok && f >= 0 {
			out[i] = uint32(f)
			continue
		}
		f, err := number(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if f < 0 {
			return nil, fmt.Errorf("%w: negative index %v", ErrBadData, f)
		}
		out[i] = uint32(f)
	}
	return out, nil
}

// field runs decode on data[key] when the key is present.
func field(data map[string]any, key string, decode func(v any) error) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	if err := decode(v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
