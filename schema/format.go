package schema

import "encoding/json"

// Format pretty-prints an envelope to indented JSON with a canonical key
// order, or returns the empty string for nil. The output is the exact wire
// shape the provider's structured-output parameter expects.
func Format(env *Envelope) string {
	if env == nil {
		return ""
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
