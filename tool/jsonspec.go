package tool

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JSONSpec exposes a loaded JSON/YAML document to an agent. The input is
// either "keys <path>" or "value <path>", where path is a dotted key
// sequence (list indexes are numeric), e.g. "value servers.0.host".
type JSONSpec struct {
	// Dict is the decoded document.
	Dict map[string]any
	// MaxValueLength truncates returned values. Zero means the default.
	MaxValueLength int
}

const defaultMaxValueLength = 200

// NewJSONSpec creates a JSONSpec over a decoded document.
func NewJSONSpec(dict map[string]any, maxValueLength int) *JSONSpec {
	return &JSONSpec{Dict: dict, MaxValueLength: maxValueLength}
}

// Name returns the name of the tool.
func (s *JSONSpec) Name() string {
	return "JsonSpec"
}

// Description returns the description of the tool.
func (s *JSONSpec) Description() string {
	return "Inspect a JSON document. Use 'keys <path>' to list the keys at " +
		"a dotted path and 'value <path>' to read the value there. " +
		"An empty path addresses the document root."
}

// Call implements tools.Tool.
func (s *JSONSpec) Call(_ context.Context, input string) (string, error) {
	op, path, _ := strings.Cut(strings.TrimSpace(input), " ")
	switch strings.ToLower(op) {
	case "keys":
		return s.Keys(path)
	case "value":
		return s.Value(path)
	default:
		return "", fmt.Errorf("unknown operation %q, expected 'keys' or 'value'", op)
	}
}

// Keys lists the keys of the mapping at path.
func (s *JSONSpec) Keys(path string) (string, error) {
	v, err := s.at(path)
	if err != nil {
		return "", err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("value at %q is not an object", path)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", "), nil
}

// Value renders the value at path, truncated to MaxValueLength.
func (s *JSONSpec) Value(path string) (string, error) {
	v, err := s.at(path)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("%v", v)
	max := s.MaxValueLength
	if max <= 0 {
		max = defaultMaxValueLength
	}
	if len(out) > max {
		out = out[:max] + "..."
	}
	return out, nil
}

func (s *JSONSpec) at(path string) (any, error) {
	var cur any = s.Dict
	path = strings.TrimSpace(path)
	if path == "" {
		return cur, nil
	}
	for _, part := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("key %q not found", part)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(v) {
				return nil, fmt.Errorf("invalid list index %q", part)
			}
			cur = v[i]
		default:
			return nil, fmt.Errorf("cannot descend into %T at %q", cur, part)
		}
	}
	return cur, nil
}
