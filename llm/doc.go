// Package llm provides the completion plumbing for the card-review flows:
// a conversation message model, completion request/response types that carry
// a structured-output schema envelope, prompt assembly for the three card
// tasks (score, rewrite, analyze), per-task token accounting, and an
// OpenTelemetry-traced client decorator.
//
// The generation backend itself is a black box behind the Client interface;
// the host application supplies the implementation.
package llm
