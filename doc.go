// Package sdk is the Cardsmith SDK for validating, repairing, and consuming
// LLM structured output in character-card review applications.
//
// Chat frontends that score, rewrite, or analyze character cards constrain
// model replies with JSON Schema envelopes. Providers accept only a narrow
// schema subset, and a schema that compiles in one place silently degrades
// in another. The SDK closes that gap: it validates schema envelopes against
// provider limits before a request is sent, repairs the common violations
// automatically, and parses the model's reply back into structured data even
// when the model wraps its JSON in prose or a markdown fence.
//
// # Packages
//
//   - schema: envelope validation against provider limits, auto-fix, limit
//     profiles, and canonical formatting
//   - parser: extraction of structured data from raw model replies
//   - llm: completion request plumbing, prompt assembly for the card tasks,
//     token accounting, and OpenTelemetry instrumentation
//   - preset: prompt and schema preset storage with in-memory, Redis, and
//     etcd backends, plus per-card session history
//
// # Getting Started
//
// Validate a schema envelope before using it:
//
//	result := sdk.ValidateSchema(input)
//	if !result.Valid {
//	    log.Fatal(result.Err)
//	}
//	for _, w := range result.Warnings {
//	    log.Println("warning:", w)
//	}
//
// Repair the fixable violations instead of rejecting the schema:
//
//	fixed := sdk.AutoFixSchema(result.Schema)
//	fmt.Println(sdk.FormatSchema(fixed))
//
// Parse a model reply against the envelope it was constrained by:
//
//	parsed, err := sdk.ParseStructuredResponse(reply, fixed)
//	if err != nil {
//	    log.Fatal(err)
//	}
package sdk
