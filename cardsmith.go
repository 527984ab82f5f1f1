package sdk

import (
	"github.com/cardsmith-ai/sdk/parser"
	"github.com/cardsmith-ai/sdk/schema"
)

// Version is the current SDK version.
const Version = "0.3.0"

// ValidateSchema validates a structured-output schema envelope given as a
// JSON string. See the schema package for the full validation surface.
func ValidateSchema(input string, opts ...schema.Option) schema.Result {
	return schema.Validate(input, opts...)
}

// AutoFixSchema returns a repaired copy of the envelope with the common
// provider violations fixed. The input is never mutated.
func AutoFixSchema(env *schema.Envelope) *schema.Envelope {
	return schema.AutoFix(env)
}

// FormatSchema renders an envelope as indented canonical JSON.
func FormatSchema(env *schema.Envelope) string {
	return schema.Format(env)
}

// ParseStructuredResponse extracts structured data from a raw model reply,
// tolerating prose and markdown fences around the JSON payload. When env is
// non-nil, missing required top-level fields are reported as warnings.
func ParseStructuredResponse(text string, env *schema.Envelope) (*parser.Structured, error) {
	return parser.ParseStructured(text, env)
}
