package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AutoFix returns a clone of the envelope rewritten to satisfy the
// provider's hard requirements: strict defaulted to true,
// additionalProperties forced to false on every object node, and minItems
// clamped to 0 or 1. Constraints the provider silently drops are removed
// and relocated into the node's description as a bracketed note, so the
// semantics survive as natural-language guidance to the model instead of
// disappearing.
//
// AutoFix is total and idempotent, and never mutates its input.
func AutoFix(env *Envelope) *Envelope {
	if env == nil {
		return nil
	}
	out := env.Clone()
	if out.Strict == nil {
		strict := true
		out.Strict = &strict
	}
	fixNode(out.Value)
	return out
}

func fixNode(n *Node) {
	if n == nil {
		return
	}

	var relocated []string
	for _, key := range ignoredConstraints() {
		raw, ok := n.Extra[key]
		if !ok {
			continue
		}
		delete(n.Extra, key)
		relocated = append(relocated, fmt.Sprintf("%s: %s", key, compactJSON(raw)))
	}

	if n.MinItems != nil && *n.MinItems != 0 && *n.MinItems != 1 {
		orig := *n.MinItems
		clamped := 0.0
		if orig > 0 {
			clamped = 1.0
		}
		*n.MinItems = clamped
		relocated = append(relocated, fmt.Sprintf("minItems: %s", formatNumber(orig)))
	}

	// Unconditional overwrite, not fill-if-absent: a non-false value is
	// just as fatal to the provider as a missing one.
	if n.Type.Has("object") {
		n.AdditionalProperties = false
	}

	if n.Properties != nil {
		for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
			fixNode(pair.Value)
		}
	}
	if n.Items != nil {
		fixNode(n.Items.Single)
		for _, item := range n.Items.Tuple {
			fixNode(item)
		}
	}
	for _, item := range n.PrefixItems {
		fixNode(item)
	}
	for _, variant := range n.AnyOf {
		fixNode(variant)
	}
	for _, variant := range n.AllOf {
		fixNode(variant)
	}

	if len(relocated) > 0 {
		note := "[Constraints: " + strings.Join(relocated, ", ") + "]"
		if n.Description != "" {
			n.Description = n.Description + " " + note
		} else {
			n.Description = note
		}
	}
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
