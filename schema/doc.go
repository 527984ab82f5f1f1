// Package schema validates and repairs JSON Schemas destined for an LLM
// provider's structured-output feature.
//
// Providers accept only a subset of JSON Schema, wrapped in a three-key
// envelope:
//
//	{
//	    "name":   "card_review",
//	    "strict": true,
//	    "value":  { "type": "object", ... }
//	}
//
// This package checks a user- or model-authored envelope against the
// provider's hard limits (nesting depth, anyOf variant counts, property
// counts, supported string formats, regex features) and reports problems at
// three severities that are never conflated:
//
//   - errors: the provider will reject the schema, or silently mis-specify it
//   - warnings: the schema compiles but a constraint is silently dropped
//   - info: descriptive output (stats, benign circular-reference notes)
//
// # Validation
//
// Validate accepts raw JSON text; ValidateEnvelope accepts an already-built
// envelope. Both return a Result rather than an error, because malformed
// user input is an expected outcome, not an exceptional one:
//
//	res := schema.Validate(input)
//	if !res.Valid {
//	    fmt.Println(res.Err.Message)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println("warning:", w)
//	}
//
// # Auto-fixing
//
// AutoFix produces a compliant deep clone of an envelope: strict is
// defaulted, additionalProperties is forced to false on object nodes,
// minItems is clamped to 0 or 1, and constraints the provider ignores are
// relocated into the node description as a bracketed note so the model still
// sees them as guidance:
//
//	fixed := schema.AutoFix(env)
//	payload := schema.Format(fixed)
//
// The engine is pure, synchronous computation: each call allocates its own
// accumulator state and shares nothing, so concurrent validation from
// multiple sessions is safe by construction.
package schema
