package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Option configures a validation call.
type Option func(*config)

type config struct {
	limits Limits
}

// WithLimits validates against an alternate provider profile instead of
// DefaultLimits.
func WithLimits(limits Limits) Option {
	return func(c *config) {
		c.limits = limits
	}
}

func newConfig(opts []Option) config {
	cfg := config{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate checks raw JSON text against the envelope shape and the
// provider's structured-output constraints.
//
// Empty or whitespace-only input is trivially valid with a nil Schema: the
// caller has opted out of structured output. Unparseable input fails with
// KindSyntax, a malformed envelope with KindShape, and constraint violations
// with KindValidation carrying every blocking finding joined by newlines.
func Validate(input string, opts ...Option) Result {
	cfg := newConfig(opts)
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Result{Valid: true}
	}
	env, verr := parseEnvelope([]byte(trimmed))
	if verr != nil {
		return Result{Valid: false, Err: verr}
	}
	return runValidation(env, cfg.limits)
}

// ValidateEnvelope checks an already-built envelope. A string input and its
// parsed equivalent produce the same result.
func ValidateEnvelope(env *Envelope, opts ...Option) Result {
	cfg := newConfig(opts)
	if env == nil {
		return Result{Valid: true}
	}
	if verr := checkEnvelope(env); verr != nil {
		return Result{Valid: false, Err: verr}
	}
	return runValidation(env, cfg.limits)
}

// parseEnvelope decodes and shape-checks the raw envelope text.
func parseEnvelope(data []byte) (*Envelope, *Error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, &Error{
				Kind:    KindSyntax,
				Message: fmt.Sprintf("JSON syntax error (character %d): %v", syn.Offset, err),
			}
		}
		return nil, &Error{Kind: KindSyntax, Message: fmt.Sprintf("JSON syntax error: %v", err)}
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, shapeErr(fmt.Sprintf("Schema must be a JSON object, got %s", jsonTypeName(top)))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shapeErr(fmt.Sprintf("Invalid schema object: %v", err))
	}

	var name string
	nameRaw, ok := raw["name"]
	if !ok || json.Unmarshal(nameRaw, &name) != nil {
		return nil, shapeErr("Missing required 'name' property (string)")
	}

	valRaw, ok := raw["value"]
	if !ok || firstByte(valRaw) != '{' {
		return nil, shapeErr("Missing or invalid 'value' property (must be object)")
	}
	node := &Node{}
	if err := json.Unmarshal(valRaw, node); err != nil {
		return nil, shapeErr(fmt.Sprintf("Invalid 'value' property: %v", err))
	}

	var strict *bool
	if strictRaw, ok := raw["strict"]; ok {
		var b bool
		if json.Unmarshal(strictRaw, &b) != nil {
			return nil, shapeErr("'strict' must be a boolean")
		}
		strict = &b
	}

	env := &Envelope{Name: name, Strict: strict, Value: node}
	if verr := checkEnvelope(env); verr != nil {
		return nil, verr
	}
	return env, nil
}

// checkEnvelope validates the envelope fields common to both input paths.
func checkEnvelope(env *Envelope) *Error {
	if strings.TrimSpace(env.Name) == "" {
		return shapeErr("'name' cannot be empty")
	}
	if !nameRe.MatchString(env.Name) {
		return shapeErr(fmt.Sprintf("Invalid 'name' %q: must match ^[a-zA-Z_][a-zA-Z0-9_]*$", env.Name))
	}
	if env.Value == nil {
		return shapeErr("Missing or invalid 'value' property (must be object)")
	}
	v := env.Value
	if v.Type == nil && v.AnyOf == nil && v.AllOf == nil && v.Ref == "" {
		return shapeErr("'value' must declare a type, anyOf, allOf, or $ref")
	}
	return nil
}

// runValidation walks the schema tree and assembles the final Result.
func runValidation(env *Envelope, limits Limits) Result {
	ctx := newValidationContext(limits, env.Value)
	if ctx.stats.Definitions > limits.MaxDefinitions {
		ctx.errorf("Too many definitions: %d (max %d)", ctx.stats.Definitions, limits.MaxDefinitions)
	}

	walkNode(env.Value, "value", ctx)

	// Aggregate heuristics over the whole tree. Each optional property
	// spawns an implicit nullable variant on the provider side; the *2
	// estimate is a tunable guess, not provider-derived.
	if ctx.stats.OptionalProperties > limits.MaxOptionalProperties {
		ctx.warnf("%d optional properties: each optional property adds an implicit nullable anyOf variant",
			ctx.stats.OptionalProperties)
	}
	estimated := ctx.stats.AnyOfVariants + 2*ctx.stats.OptionalProperties
	if estimated > limits.MaxEstimatedVariants {
		ctx.warnf("Estimated %d total variants (explicit anyOf plus implicit nullable): schema compilation may be slow",
			estimated)
	}

	if len(ctx.errors) > 0 {
		return Result{
			Valid:    false,
			Err:      &Error{Kind: KindValidation, Message: strings.Join(ctx.errors, "\n")},
			Warnings: ctx.warnings,
		}
	}

	strict := env.IsStrict()
	info := append([]string(nil), ctx.info...)
	info = append(info, fmt.Sprintf(
		"Schema stats: %d properties, %d definitions, %d anyOf blocks, %d optional fields, max depth %d",
		ctx.stats.Properties, ctx.stats.Definitions, ctx.stats.AnyOfBlocks,
		ctx.stats.OptionalProperties, ctx.stats.MaxDepth))
	return Result{
		Valid:    true,
		Schema:   &Envelope{Name: env.Name, Strict: &strict, Value: env.Value},
		Warnings: ctx.warnings,
		Info:     info,
	}
}

// walkNode applies the per-node checks depth-first. The path is the
// human-readable location of the node, dot-separated with [i] indices,
// rooted at "value".
func walkNode(n *Node, path string, ctx *validationContext) {
	ctx.depth++
	defer func() { ctx.depth-- }()

	if ctx.depth > ctx.stats.MaxDepth {
		ctx.stats.MaxDepth = ctx.depth
	}
	// Depth circuit breaker: stop descending past the provider limit so a
	// deeply nested schema produces one finding per branch, not thousands.
	if ctx.depth > ctx.limits.MaxDepth {
		ctx.errorf("Nesting depth %d at %s exceeds maximum %d", ctx.depth, path, ctx.limits.MaxDepth)
		return
	}
	if n == nil {
		return
	}

	for _, key := range unsupportedFeatures {
		if _, ok := n.Extra[key]; ok {
			ctx.errorf("Unsupported feature '%s' at %s", key, path)
		}
	}
	for _, key := range ignoredConstraints() {
		if _, ok := n.Extra[key]; ok {
			ctx.warnf("Constraint '%s' at %s is not enforced by the provider and will be silently ignored", key, path)
		}
	}

	// A $ref node carries no parallel type-specific validation.
	if n.Ref != "" {
		checkRef(n.Ref, path, ctx)
		return
	}

	for _, typ := range n.Type {
		switch typ {
		case "object":
			checkObject(n, path, ctx)
		case "array":
			checkArray(n, path, ctx)
		case "string":
			checkString(n, path, ctx)
		case "number", "integer", "boolean", "null":
		default:
			if n.AnyOf == nil && n.AllOf == nil {
				ctx.warnf("Unknown type '%s' at %s", typ, path)
			}
		}
	}

	if n.AnyOf != nil {
		checkAnyOf(n, path, ctx)
	}
	if n.AllOf != nil {
		checkAllOf(n, path, ctx)
	}
	if n.Enum != nil {
		checkEnum(n, path, ctx)
	}
	if len(n.Const) > 0 {
		checkConst(n, path, ctx)
	}
}

func checkRef(ref, path string, ctx *validationContext) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		ctx.errorf("External reference '%s' at %s is not supported", ref, path)
		return
	}
	// Recursive schemas are allowed to exist, but the engine does not
	// expand them further.
	if ctx.seenRefs[ref] {
		ctx.infof("Circular reference '%s' at %s (not expanded)", ref, path)
		return
	}
	ctx.seenRefs[ref] = true

	name := ref
	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if strings.HasPrefix(ref, prefix) {
			name = strings.TrimPrefix(ref, prefix)
		}
	}
	if _, ok := ctx.defs[name]; !ok {
		ctx.errorf("Reference '%s' at %s not found in definitions", ref, path)
	}
}

func checkObject(n *Node, path string, ctx *validationContext) {
	// Some providers ignore a missing additionalProperties rather than
	// rejecting the schema, so this stays a warning.
	if b, ok := n.AdditionalProperties.(bool); !ok || b {
		ctx.warnf("additionalProperties at %s must be false (REQUIRED for Anthropic structured outputs)", path)
	}

	count := 0
	if n.Properties != nil {
		count = n.Properties.Len()
	}
	ctx.stats.Properties += count
	if count > ctx.limits.MaxProperties {
		ctx.warnf("Object at %s has %d properties (max %d): large objects slow schema compilation",
			path, count, ctx.limits.MaxProperties)
	}

	required := make(map[string]bool, len(n.Required))
	for _, name := range n.Required {
		required[name] = true
	}
	if n.Properties != nil {
		for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if !required[pair.Key] {
				ctx.stats.OptionalProperties++
			}
			walkNode(pair.Value, path+"."+pair.Key, ctx)
		}
	}
}

func checkArray(n *Node, path string, ctx *validationContext) {
	if n.MinItems != nil && *n.MinItems != 0 && *n.MinItems != 1 {
		ctx.warnf("minItems %s at %s: the provider only honors 0 or 1",
			formatNumber(*n.MinItems), path)
	}
	if n.Items != nil {
		if n.Items.Single != nil {
			walkNode(n.Items.Single, path+".items", ctx)
		}
		for i, item := range n.Items.Tuple {
			walkNode(item, fmt.Sprintf("%s.items[%d]", path, i), ctx)
		}
	}
	for i, item := range n.PrefixItems {
		walkNode(item, fmt.Sprintf("%s.prefixItems[%d]", path, i), ctx)
	}
}

func checkString(n *Node, path string, ctx *validationContext) {
	if n.Format != "" && !ctx.limits.SupportsFormat(n.Format) {
		ctx.warnf("Format '%s' at %s is not supported (supported: %s)",
			n.Format, path, strings.Join(ctx.limits.SupportedFormats, ", "))
	}
	if n.Pattern != "" {
		checkPattern(n.Pattern, path, ctx)
	}
}

func checkAnyOf(n *Node, path string, ctx *validationContext) {
	ctx.stats.AnyOfBlocks++
	ctx.stats.AnyOfVariants += len(n.AnyOf)

	switch {
	case len(n.AnyOf) > ctx.limits.MaxAnyOfVariants:
		ctx.errorf("anyOf at %s has %d variants (max %d)", path, len(n.AnyOf), ctx.limits.MaxAnyOfVariants)
	case len(n.AnyOf) == 0:
		ctx.errorf("anyOf at %s cannot be empty", path)
	default:
		for i, variant := range n.AnyOf {
			walkNode(variant, fmt.Sprintf("%s.anyOf[%d]", path, i), ctx)
		}
	}
}

func checkAllOf(n *Node, path string, ctx *validationContext) {
	if len(n.AllOf) == 0 {
		ctx.errorf("allOf at %s cannot be empty", path)
		return
	}
	for i, variant := range n.AllOf {
		variantPath := fmt.Sprintf("%s.allOf[%d]", path, i)
		if variant != nil && variant.Ref != "" {
			ctx.errorf("$ref inside allOf at %s is not supported", variantPath)
		}
		walkNode(variant, variantPath, ctx)
	}
}

func checkEnum(n *Node, path string, ctx *validationContext) {
	ctx.stats.EnumBlocks++
	if len(n.Enum) == 0 {
		ctx.errorf("enum at %s cannot be empty", path)
		return
	}
	if len(n.Enum) > ctx.limits.MaxEnumValues {
		ctx.warnf("enum at %s has %d values (max %d): large enums slow schema compilation",
			path, len(n.Enum), ctx.limits.MaxEnumValues)
	}

	// A wrong-typed or duplicated value is usually symptomatic of a
	// generated enum gone wrong, so stop at the first of each rather than
	// enumerating every repeat.
	for i, v := range n.Enum {
		if !isPrimitive(v) {
			ctx.errorf("enum at %s: value at index %d has unsupported type %s (only string, number, boolean, null)",
				path, i, jsonTypeName(v))
			break
		}
	}
dupScan:
	for i := 0; i < len(n.Enum); i++ {
		for j := i + 1; j < len(n.Enum); j++ {
			if reflect.DeepEqual(n.Enum[i], n.Enum[j]) {
				ctx.warnf("enum at %s has a duplicate value at index %d", path, j)
				break dupScan
			}
		}
	}
}

func checkConst(n *Node, path string, ctx *validationContext) {
	var v any
	if err := json.Unmarshal(n.Const, &v); err != nil || !isPrimitive(v) {
		ctx.errorf("const at %s must be a string, number, boolean, or null", path)
	}
}

// isPrimitive reports whether a decoded JSON value is a structured-output
// legal literal. Integer kinds are accepted so envelopes built in Go code
// behave like parsed ones.
func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64, json.Number:
		return true
	default:
		return false
	}
}

// jsonTypeName names a decoded JSON value's type the way the diagnostics
// talk about it.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}
