package domain

import (
	"encoding/json"
	"fmt"
)

// Merge reconciles a stored payload against the current season defaults.
// Stored values always win; defaults only fill keys the stored document
// lacks. Nested objects are merged recursively. Arrays and scalars are
// opaque leaves: a stored array is never element-merged against a default
// array. Keys present in the stored document but absent from the defaults
// survive untouched, so downgraded or custom fields are never dropped.
//
// Merge is idempotent: Merge(Merge(p, d), d) == Merge(p, d).
func Merge(stored, defaults map[string]any) map[string]any {
	if stored == nil {
		stored = map[string]any{}
	}
	out := make(map[string]any, len(stored)+len(defaults))
	for key, value := range stored {
		out[key] = value
	}
	for key, defaultValue := range defaults {
		storedValue, ok := out[key]
		if !ok {
			out[key] = defaultValue
			continue
		}
		storedMap, storedIsMap := storedValue.(map[string]any)
		defaultMap, defaultIsMap := defaultValue.(map[string]any)
		if storedIsMap && defaultIsMap {
			out[key] = Merge(storedMap, defaultMap)
		}
	}
	return out
}

// MergeRaw applies Merge to raw JSON documents. A stored document that is
// empty or not a JSON object yields the defaults unchanged; a defaults
// document that fails to parse is an error, since the schema provider is
// the one collaborator whose output must be well formed.
func MergeRaw(stored, defaults json.RawMessage) (json.RawMessage, error) {
	defaultDoc := map[string]any{}
	if len(defaults) > 0 {
		if err := json.Unmarshal(defaults, &defaultDoc); err != nil {
			return nil, fmt.Errorf("decode default payload: %w", err)
		}
	}
	storedDoc := map[string]any{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &storedDoc); err != nil {
			storedDoc = nil
		}
	}
	merged, err := json.Marshal(Merge(storedDoc, defaultDoc))
	if err != nil {
		return nil, fmt.Errorf("encode merged payload: %w", err)
	}
	return merged, nil
}
