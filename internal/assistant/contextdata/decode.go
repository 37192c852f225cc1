// internal/assistant/contextdata/decode.go
package contextdata

import "encoding/json"

// DecodeItems shapes a payload that is either a direct JSON array or an
// object wrapping the array under a conventional field name (the two shapes
// the live endpoints and cache producers emit). Anything else decodes to
// nil, which callers treat as "no data".
func DecodeItems[T any](raw []byte, field string) []T {
	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	inner, ok := wrapped[field]
	if !ok {
		return nil
	}

	var items []T
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil
	}
	return items
}
