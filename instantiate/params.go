package instantiate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parameters holding token lists that constructors consume as sets.
var setParams = map[string]struct{}{
	"allowed_special":    {},
	"disallowed_special": {},
}

// NormalizeParams applies the wire-format fixups every node needs before
// construction: token-list parameters become sets, and any parameter
// whose name contains "kwargs" and arrives as a string is decoded as
// JSON. The input map is never modified; callers keep a pristine copy
// of the node's raw parameters.
func NormalizeParams(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for key, value := range params {
		normalized, err := normalizeParam(key, value)
		if err != nil {
			return nil, err
		}
		out[key] = normalized
	}
	return out, nil
}

func normalizeParam(key string, value any) (any, error) {
	if _, ok := setParams[key]; ok {
		if set, ok := toSet(value); ok {
			return set, nil
		}
		return value, nil
	}
	if strings.Contains(key, "kwargs") {
		s, ok := value.(string)
		if !ok {
			// Already decoded upstream.
			return value, nil
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, &MalformedParameterError{Param: key, Err: err}
		}
		return decoded, nil
	}
	return value, nil
}

// toSet converts a token list into a set, deduplicating. Non-list values
// are left alone.
func toSet(value any) (map[string]struct{}, bool) {
	var items []string
	switch list := value.(type) {
	case []string:
		items = list
	case []any:
		items = make([]string, 0, len(list))
		for _, item := range list {
			items = append(items, fmt.Sprintf("%v", item))
		}
	default:
		return nil, false
	}
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set, true
}
