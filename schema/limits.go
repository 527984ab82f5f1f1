package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Limits describes one provider's structured-output constraints. The zero
// value is not usable; start from DefaultLimits or LoadLimits.
type Limits struct {
	// MaxAnyOfVariants is the maximum variant count per anyOf block.
	MaxAnyOfVariants int `yaml:"max_anyof_variants"`

	// MaxDefinitions is the maximum number of $defs/definitions entries.
	MaxDefinitions int `yaml:"max_definitions"`

	// MaxDepth is the maximum schema nesting depth.
	MaxDepth int `yaml:"max_depth"`

	// MaxProperties is the per-object property count above which the
	// validator warns about compilation cost.
	MaxProperties int `yaml:"max_properties"`

	// MaxEnumValues is the enum size above which the validator warns.
	MaxEnumValues int `yaml:"max_enum_values"`

	// SupportedFormats lists the string format values the provider honors.
	SupportedFormats []string `yaml:"supported_formats"`

	// MaxOptionalProperties is the heuristic threshold for warning about
	// implicit nullable-variant explosion. Each optional property spawns an
	// implicit nullable variant on the provider side.
	MaxOptionalProperties int `yaml:"max_optional_properties"`

	// MaxEstimatedVariants bounds the heuristic estimate of total variants:
	// explicit anyOf variants plus twice the optional-property count. The
	// estimate is a tunable guess, not a model of the provider's compiler.
	MaxEstimatedVariants int `yaml:"max_estimated_variants"`

	// MaxQuantifierSpan is the bounded-quantifier span {min,max} above which
	// the validator warns about regex compilation cost.
	MaxQuantifierSpan int `yaml:"max_quantifier_span"`
}

// DefaultLimits returns the constraints of the Anthropic structured-output
// implementation.
func DefaultLimits() Limits {
	return Limits{
		MaxAnyOfVariants: 8,
		MaxDefinitions:   100,
		MaxDepth:         10,
		MaxProperties:    100,
		MaxEnumValues:    500,
		SupportedFormats: []string{
			"date-time", "time", "date", "duration",
			"email", "hostname", "ipv4", "ipv6", "uuid", "uri",
		},
		MaxOptionalProperties: 10,
		MaxEstimatedVariants:  50,
		MaxQuantifierSpan:     100,
	}
}

// LoadLimits reads an alternate provider profile from YAML. Absent keys keep
// their default values, so a profile only needs to list what differs.
func LoadLimits(r io.Reader) (Limits, error) {
	limits := DefaultLimits()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&limits); err != nil && err != io.EOF {
		return Limits{}, fmt.Errorf("failed to decode limits profile: %w", err)
	}
	return limits, nil
}

// SupportsFormat reports whether the provider honors a string format value.
func (l Limits) SupportsFormat(format string) bool {
	for _, f := range l.SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Features the provider rejects outright. These never degrade gracefully:
// any occurrence is an error.
var unsupportedFeatures = []string{
	"if", "then", "else",
	"not",
	"oneOf",
	"dependentRequired", "dependentSchemas",
	"unevaluatedProperties", "unevaluatedItems",
	"$dynamicRef", "$dynamicAnchor",
}

// Constraints the provider accepts but silently drops. Each occurrence is a
// warning; the auto-fixer relocates them into description text.
var (
	ignoredNumericConstraints = []string{
		"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	}
	ignoredStringConstraints = []string{
		"minLength", "maxLength",
	}
	ignoredArrayConstraints = []string{
		"maxItems", "uniqueItems", "contains", "minContains", "maxContains",
	}
	ignoredObjectConstraints = []string{
		"minProperties", "maxProperties", "propertyNames", "patternProperties",
	}
)

// ignoredConstraints returns the four ignore lists as one slice, in a fixed
// order so diagnostics and auto-fix notes are deterministic.
func ignoredConstraints() []string {
	out := make([]string, 0,
		len(ignoredNumericConstraints)+len(ignoredStringConstraints)+
			len(ignoredArrayConstraints)+len(ignoredObjectConstraints))
	out = append(out, ignoredNumericConstraints...)
	out = append(out, ignoredStringConstraints...)
	out = append(out, ignoredArrayConstraints...)
	out = append(out, ignoredObjectConstraints...)
	return out
}
