package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cardsmith-ai/sdk/schema"
)

// ErrNoJSON is returned when no parseable JSON payload is found in a
// response. Parse failure is an ordinary negative result, not an exception;
// callers match it with errors.Is.
var ErrNoJSON = errors.New("parser: no JSON payload found in response")

// fencedBlockRe matches the first fenced code block, with an optional
// language tag after the opening fence. Only the first block is considered.
var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n?(.*?)```")

// Structured is a successfully extracted payload.
type Structured struct {
	// Data is the decoded JSON value, usually a map[string]any.
	Data any

	// Warnings lists non-fatal findings, currently only missing required
	// top-level fields. Partial structured output is still usable.
	Warnings []string
}

// ParseStructured extracts a JSON payload from a raw model completion.
//
// It first tries the whole text as JSON, then the body of the first fenced
// code block. If both fail it returns ErrNoJSON. When an envelope with a
// non-empty required list is supplied, missing top-level keys are collected
// into a single warning; the check is top-level only and not schema-aware.
func ParseStructured(text string, env *schema.Envelope) (*Structured, error) {
	var data any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &data); err != nil {
		m := fencedBlockRe.FindStringSubmatch(text)
		if m == nil {
			return nil, ErrNoJSON
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &data); err != nil {
			return nil, ErrNoJSON
		}
	}

	out := &Structured{Data: data, Warnings: []string{}}
	if env != nil && env.Value != nil && len(env.Value.Required) > 0 {
		if obj, ok := data.(map[string]any); ok {
			var missing []string
			for _, field := range env.Value.Required {
				if _, present := obj[field]; !present {
					missing = append(missing, field)
				}
			}
			if len(missing) > 0 {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("response is missing required fields: %s", strings.Join(missing, ", ")))
			}
		}
	}
	return out, nil
}

// Decode maps an extracted payload onto a typed value using generics.
func Decode[T any](s *Structured) (*T, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode payload: %w", err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return &result, nil
}
