package schema

import (
	"bytes"
	"encoding/json"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is one vertex of a JSON-Schema-like tree. The model is deliberately
// loose: it mirrors the subset of JSON Schema the provider understands, and
// every key it does not map to a field is preserved verbatim in Extra so the
// validator can flag it and the auto-fixer can relocate it.
//
// Property order is preserved from the input document. Diagnostics walk
// properties in insertion order, so the same schema always produces the same
// ordered output.
type Node struct {
	// Type holds the declared type tag(s). A node may declare a single type
	// or a list of types; both forms round-trip through JSON unchanged.
	Type TypeSet

	Description string

	// Properties maps property names to their schemas, in document order.
	Properties *orderedmap.OrderedMap[string, *Node]

	// Required lists property names that must be present, in document order.
	Required []string

	// AdditionalProperties holds the raw additionalProperties value.
	// nil means the key was absent. The provider requires the literal false.
	AdditionalProperties any

	// Items is the array item schema, either a single schema or the legacy
	// tuple form.
	Items *Items

	PrefixItems []*Node

	AnyOf []*Node
	AllOf []*Node

	// Enum holds the literal values of an enum block. A non-nil empty slice
	// means the key was present but empty, which is invalid.
	Enum []any

	// Const holds the raw const literal. A zero-length value means absent,
	// so a JSON null const is still detectable.
	Const json.RawMessage

	// Ref is a $ref pointer into the root's $defs/definitions map.
	Ref string

	// Defs and Definitions hold named sub-schemas ($defs and the legacy
	// definitions key respectively).
	Defs        map[string]*Node
	Definitions map[string]*Node

	Format  string
	Pattern string

	// MinItems is kept as a float so non-integer input survives the
	// round-trip; the provider only honors 0 and 1.
	MinItems *float64

	// Extra preserves every unrecognized key, including the constraints the
	// validator reports as ignored (minimum, maxLength, uniqueItems, ...)
	// and the features it rejects outright (oneOf, not, if/then/else, ...).
	Extra map[string]json.RawMessage
}

// TypeSet is the value of a "type" key: one tag or a list of tags.
type TypeSet []string

// Has reports whether the set declares the given type tag.
func (t TypeSet) Has(name string) bool {
	for _, tag := range t {
		if tag == name {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts both the single-string and list forms.
func (t *TypeSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TypeSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = TypeSet(many)
	return nil
}

// MarshalJSON emits the single-string form when only one tag is declared.
func (t TypeSet) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Items is an array node's item schema: a single schema, or the legacy
// tuple form holding one schema per position.
type Items struct {
	Single *Node
	Tuple  []*Node
}

// UnmarshalJSON branches on the first byte: a list is the tuple form,
// anything else is a single schema.
func (it *Items) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &it.Tuple)
	}
	it.Single = &Node{}
	return json.Unmarshal(trimmed, it.Single)
}

// MarshalJSON restores whichever form was parsed.
func (it *Items) MarshalJSON() ([]byte, error) {
	if it.Tuple != nil {
		return json.Marshal(it.Tuple)
	}
	return json.Marshal(it.Single)
}

// Clone returns a deep copy of the items schema.
func (it *Items) Clone() *Items {
	if it == nil {
		return nil
	}
	return &Items{
		Single: it.Single.Clone(),
		Tuple:  cloneNodes(it.Tuple),
	}
}

// UnmarshalJSON decodes a schema node, preserving property order and
// stashing unrecognized keys in Extra. It is tolerant: a field with an
// unexpected shape lands in Extra instead of failing the decode, and a
// non-object schema value (the boolean schema form) decodes to an empty
// node. Malformed input therefore surfaces as validation findings, not as
// decode errors.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*n = Node{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*n = Node{}
	for key, val := range raw {
		if n.assign(key, val) {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]json.RawMessage)
		}
		n.Extra[key] = val
	}
	return nil
}

// assign decodes a recognized key into its field, reporting whether the key
// was consumed.
func (n *Node) assign(key string, val json.RawMessage) bool {
	switch key {
	case "type":
		var ts TypeSet
		if json.Unmarshal(val, &ts) != nil {
			return false
		}
		n.Type = ts
	case "description":
		return unmarshalInto(val, &n.Description)
	case "properties":
		props := orderedmap.New[string, *Node]()
		if json.Unmarshal(val, props) != nil {
			return false
		}
		n.Properties = props
	case "required":
		return unmarshalInto(val, &n.Required)
	case "additionalProperties":
		var v any
		if json.Unmarshal(val, &v) != nil {
			return false
		}
		n.AdditionalProperties = v
	case "items":
		var it Items
		if json.Unmarshal(val, &it) != nil {
			return false
		}
		n.Items = &it
	case "prefixItems":
		return unmarshalInto(val, &n.PrefixItems)
	case "anyOf":
		return unmarshalInto(val, &n.AnyOf)
	case "allOf":
		return unmarshalInto(val, &n.AllOf)
	case "enum":
		return unmarshalInto(val, &n.Enum)
	case "const":
		n.Const = append(json.RawMessage(nil), val...)
	case "$ref":
		return unmarshalInto(val, &n.Ref)
	case "$defs":
		return unmarshalInto(val, &n.Defs)
	case "definitions":
		return unmarshalInto(val, &n.Definitions)
	case "format":
		return unmarshalInto(val, &n.Format)
	case "pattern":
		return unmarshalInto(val, &n.Pattern)
	case "minItems":
		var f float64
		if json.Unmarshal(val, &f) != nil {
			return false
		}
		n.MinItems = &f
	default:
		return false
	}
	return true
}

// MarshalJSON emits the node's keys in a canonical order: recognized keys
// first, then Extra keys sorted lexically. Together with ordered properties
// this makes formatted output deterministic.
func (n *Node) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	if n.Type != nil {
		om.Set("type", n.Type)
	}
	if n.Description != "" {
		om.Set("description", n.Description)
	}
	if n.Properties != nil {
		om.Set("properties", n.Properties)
	}
	if n.Required != nil {
		om.Set("required", n.Required)
	}
	if n.AdditionalProperties != nil {
		om.Set("additionalProperties", n.AdditionalProperties)
	}
	if n.Items != nil {
		om.Set("items", n.Items)
	}
	if n.PrefixItems != nil {
		om.Set("prefixItems", n.PrefixItems)
	}
	if n.AnyOf != nil {
		om.Set("anyOf", n.AnyOf)
	}
	if n.AllOf != nil {
		om.Set("allOf", n.AllOf)
	}
	if n.Enum != nil {
		om.Set("enum", n.Enum)
	}
	if len(n.Const) > 0 {
		om.Set("const", n.Const)
	}
	if n.Ref != "" {
		om.Set("$ref", n.Ref)
	}
	if n.Defs != nil {
		om.Set("$defs", n.Defs)
	}
	if n.Definitions != nil {
		om.Set("definitions", n.Definitions)
	}
	if n.Format != "" {
		om.Set("format", n.Format)
	}
	if n.Pattern != "" {
		om.Set("pattern", n.Pattern)
	}
	if n.MinItems != nil {
		om.Set("minItems", *n.MinItems)
	}
	for _, key := range sortedKeys(n.Extra) {
		om.Set(key, n.Extra[key])
	}
	return json.Marshal(om)
}

// Clone returns a deep copy of the node. The auto-fixer mutates only clones,
// never its input.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:                 append(TypeSet(nil), n.Type...),
		Description:          n.Description,
		Required:             append([]string(nil), n.Required...),
		AdditionalProperties: n.AdditionalProperties,
		Items:                n.Items.Clone(),
		PrefixItems:          cloneNodes(n.PrefixItems),
		AnyOf:                cloneNodes(n.AnyOf),
		AllOf:                cloneNodes(n.AllOf),
		Const:                append(json.RawMessage(nil), n.Const...),
		Ref:                  n.Ref,
		Defs:                 cloneDefs(n.Defs),
		Definitions:          cloneDefs(n.Definitions),
		Format:               n.Format,
		Pattern:              n.Pattern,
	}
	if n.Enum != nil {
		out.Enum = append([]any(nil), n.Enum...)
	}
	if n.Properties != nil {
		out.Properties = orderedmap.New[string, *Node]()
		for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties.Set(pair.Key, pair.Value.Clone())
		}
	}
	if n.MinItems != nil {
		v := *n.MinItems
		out.MinItems = &v
	}
	if n.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(n.Extra))
		for key, val := range n.Extra {
			out.Extra[key] = append(json.RawMessage(nil), val...)
		}
	}
	return out
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, node := range nodes {
		out[i] = node.Clone()
	}
	return out
}

func cloneDefs(defs map[string]*Node) map[string]*Node {
	if defs == nil {
		return nil
	}
	out := make(map[string]*Node, len(defs))
	for name, def := range defs {
		out[name] = def.Clone()
	}
	return out
}

func unmarshalInto[T any](raw json.RawMessage, dst *T) bool {
	var v T
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	*dst = v
	return true
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Envelope is the three-key wrapper the provider's structured-output
// parameter expects. This exact shape is what callers persist in presets and
// send over the wire, so it must round-trip unchanged.
type Envelope struct {
	// Name identifies the schema. It must match ^[a-zA-Z_][a-zA-Z0-9_]*$.
	Name string `json:"name"`

	// Strict defaults to true when absent. Validation normalizes it.
	Strict *bool `json:"strict,omitempty"`

	// Value is the root schema node.
	Value *Node `json:"value"`
}

// IsStrict reports the effective strict setting, defaulting to true.
func (e *Envelope) IsStrict() bool {
	return e.Strict == nil || *e.Strict
}

// Clone returns a deep copy of the envelope.
func (e *Envelope) Clone() *Envelope {
	if e == nil {
		return nil
	}
	out := &Envelope{Name: e.Name, Value: e.Value.Clone()}
	if e.Strict != nil {
		v := *e.Strict
		out.Strict = &v
	}
	return out
}
