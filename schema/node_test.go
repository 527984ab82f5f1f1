package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeRoundTripPreservesPropertyOrder(t *testing.T) {
	input := `{"type":"object","properties":{"zebra":{"type":"string"},"apple":{"type":"integer"},"mango":{"type":"boolean"}},"required":["zebra"]}`
	var n Node
	if err := json.Unmarshal([]byte(input), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(&n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	zebra := strings.Index(s, "zebra")
	apple := strings.Index(s, "apple")
	mango := strings.Index(s, "mango")
	if zebra == -1 || apple == -1 || mango == -1 {
		t.Fatalf("missing properties in output: %s", s)
	}
	if !(zebra < apple && apple < mango) {
		t.Errorf("property order not preserved: %s", s)
	}
}

func TestTypeSetForms(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"type":"string"}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(n.Type) != 1 || n.Type[0] != "string" {
		t.Errorf("expected single type, got %v", n.Type)
	}
	out, _ := json.Marshal(&n)
	if !strings.Contains(string(out), `"type":"string"`) {
		t.Errorf("single type should marshal as a string, got %s", out)
	}

	if err := json.Unmarshal([]byte(`{"type":["string","null"]}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(n.Type) != 2 || !n.Type.Has("null") {
		t.Errorf("expected two types, got %v", n.Type)
	}
	out, _ = json.Marshal(&n)
	if !strings.Contains(string(out), `["string","null"]`) {
		t.Errorf("type list should marshal as an array, got %s", out)
	}
}

func TestItemsForms(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"type":"array","items":{"type":"string"}}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.Items == nil || n.Items.Single == nil || n.Items.Tuple != nil {
		t.Fatalf("expected single items form, got %+v", n.Items)
	}

	if err := json.Unmarshal([]byte(`{"type":"array","items":[{"type":"string"},{"type":"integer"}]}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.Items == nil || len(n.Items.Tuple) != 2 {
		t.Fatalf("expected tuple items form, got %+v", n.Items)
	}
}

func TestNodeExtraCapturesUnrecognizedKeys(t *testing.T) {
	var n Node
	input := `{"type":"string","minLength":3,"oneOf":[{"type":"integer"}],"x-custom":"hi"}`
	if err := json.Unmarshal([]byte(input), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"minLength", "oneOf", "x-custom"} {
		if _, ok := n.Extra[key]; !ok {
			t.Errorf("expected %q in Extra, got %v", key, n.Extra)
		}
	}
}

func TestNodeToleratesOddShapes(t *testing.T) {
	var n Node
	// Boolean schema form decodes to an empty node rather than failing.
	if err := json.Unmarshal([]byte(`true`), &n); err != nil {
		t.Fatalf("boolean schema should not fail: %v", err)
	}
	// A wrong-shaped recognized key lands in Extra.
	if err := json.Unmarshal([]byte(`{"required":"not-a-list","type":"object"}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.Required != nil {
		t.Errorf("wrong-shaped required should not populate the field, got %v", n.Required)
	}
	if _, ok := n.Extra["required"]; !ok {
		t.Error("wrong-shaped required should be preserved in Extra")
	}
}

func TestNodeConstNull(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"type":"null","const":null}`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(n.Const) == 0 {
		t.Error("a JSON null const should still register as present")
	}
}

func TestNodeCloneIsDeep(t *testing.T) {
	var n Node
	input := `{"type":"object","properties":{"a":{"type":"string","minLength":1}},"required":["a"],"$defs":{"T":{"type":"integer"}}}`
	if err := json.Unmarshal([]byte(input), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	clone := n.Clone()
	clone.Description = "changed"
	pair := clone.Properties.Oldest()
	pair.Value.Description = "changed too"
	delete(clone.Properties.Oldest().Value.Extra, "minLength")
	clone.Defs["T"].Description = "also changed"

	if n.Description != "" {
		t.Error("clone mutated original description")
	}
	if n.Properties.Oldest().Value.Description != "" {
		t.Error("clone mutated original property")
	}
	if _, ok := n.Properties.Oldest().Value.Extra["minLength"]; !ok {
		t.Error("clone mutated original Extra")
	}
	if n.Defs["T"].Description != "" {
		t.Error("clone mutated original defs")
	}
}

func TestEnvelopeIsStrict(t *testing.T) {
	env := &Envelope{Name: "S"}
	if !env.IsStrict() {
		t.Error("absent strict should default to true")
	}
	f := false
	env.Strict = &f
	if env.IsStrict() {
		t.Error("explicit false should stick")
	}
}
