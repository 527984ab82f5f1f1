// Package parser recovers structured JSON payloads from raw model
// completions, tolerating the commentary and code fences models like to wrap
// their output in. Extraction is deliberately conservative: the whole text,
// then the first fenced code block, and nothing cleverer — ambiguous
// malformed JSON is reported, not guessed at.
package parser
