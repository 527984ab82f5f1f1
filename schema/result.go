package schema

// ErrorKind categorizes why validation failed.
type ErrorKind string

const (
	// KindSyntax means the input was not parseable JSON.
	KindSyntax ErrorKind = "syntax"

	// KindShape means the envelope was parseable but malformed: wrong
	// top-level type, missing or invalid name/strict/value.
	KindShape ErrorKind = "shape"

	// KindValidation means the envelope was well-formed but the schema
	// violates the provider's constraints. The message joins every blocking
	// finding with newlines, not just the first.
	KindValidation ErrorKind = "validation"
)

// Error describes a validation failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Result is the outcome of validating a schema envelope. Expected malformed
// input is reported here as data; the engine never panics on user input.
type Result struct {
	// Valid reports whether the schema can be used for structured output.
	// Warnings do not affect validity.
	Valid bool

	// Schema is the normalized envelope (strict defaulted to true) when the
	// input was valid and non-empty. It is nil for the empty-input case,
	// where the caller has opted out of structured output.
	Schema *Envelope

	// Err describes the failure when Valid is false.
	Err *Error

	// Warnings lists constraints the provider will silently drop and
	// heuristic risk findings. Present on both valid and invalid results.
	Warnings []string

	// Info lists descriptive findings: the stats summary line and benign
	// circular-reference notes. Only present on valid results.
	Info []string
}

func shapeErr(msg string) *Error {
	return &Error{Kind: KindShape, Message: msg}
}
