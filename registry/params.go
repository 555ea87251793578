package registry

import (
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/tools"
)

// StringParam reads a string parameter, returning fallback when absent.
func StringParam(params map[string]any, key, fallback string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: expected string, got %T", key, v)
	}
	return s, nil
}

// IntParam reads an integer parameter. JSON decoding yields float64, so
// numeric types are converted.
func IntParam(params map[string]any, key string, fallback int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected number, got %T", key, v)
	}
}

// FloatParam reads a floating point parameter.
func FloatParam(params map[string]any, key string, fallback float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected number, got %T", key, v)
	}
}

// BoolParam reads a boolean parameter.
func BoolParam(params map[string]any, key string, fallback bool) (bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// StringSliceParam reads a list-of-strings parameter. JSON decoding
// yields []any, which is accepted element-wise.
func StringSliceParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q: expected string element, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{list}, nil
	default:
		return nil, fmt.Errorf("parameter %q: expected list of strings, got %T", key, v)
	}
}

// DocumentsParam reads a loaded-documents parameter.
func DocumentsParam(params map[string]any, key string) ([]schema.Document, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch docs := v.(type) {
	case []schema.Document:
		return docs, nil
	case []any:
		out := make([]schema.Document, 0, len(docs))
		for _, item := range docs {
			d, ok := item.(schema.Document)
			if !ok {
				return nil, fmt.Errorf("parameter %q: expected document element, got %T", key, item)
			}
			out = append(out, d)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q: expected documents, got %T", key, v)
	}
}

// ToolsParam reads a tools parameter built by upstream nodes. A single
// tool value is wrapped into a one-element slice.
func ToolsParam(params map[string]any, key string) ([]tools.Tool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch ts := v.(type) {
	case []tools.Tool:
		return ts, nil
	case tools.Tool:
		return []tools.Tool{ts}, nil
	case []any:
		out := make([]tools.Tool, 0, len(ts))
		for _, item := range ts {
			tl, ok := item.(tools.Tool)
			if !ok {
				return nil, fmt.Errorf("parameter %q: expected tool element, got %T", key, item)
			}
			out = append(out, tl)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q: expected tools, got %T", key, v)
	}
}
