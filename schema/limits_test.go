package schema

import (
	"strings"
	"testing"
)

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()
	if limits.MaxAnyOfVariants != 8 {
		t.Errorf("expected 8 anyOf variants, got %d", limits.MaxAnyOfVariants)
	}
	if limits.MaxDefinitions != 100 {
		t.Errorf("expected 100 definitions, got %d", limits.MaxDefinitions)
	}
	if limits.MaxDepth != 10 {
		t.Errorf("expected depth 10, got %d", limits.MaxDepth)
	}
	if limits.MaxEnumValues != 500 {
		t.Errorf("expected 500 enum values, got %d", limits.MaxEnumValues)
	}
	if !limits.SupportsFormat("date-time") || !limits.SupportsFormat("uuid") {
		t.Error("expected date-time and uuid to be supported formats")
	}
	if limits.SupportsFormat("phone") {
		t.Error("phone should not be a supported format")
	}
}

func TestLoadLimitsPartialProfile(t *testing.T) {
	profile := strings.NewReader("max_depth: 5\nmax_anyof_variants: 4\n")
	limits, err := LoadLimits(profile)
	if err != nil {
		t.Fatalf("load limits: %v", err)
	}
	if limits.MaxDepth != 5 {
		t.Errorf("expected overridden depth 5, got %d", limits.MaxDepth)
	}
	if limits.MaxAnyOfVariants != 4 {
		t.Errorf("expected overridden variants 4, got %d", limits.MaxAnyOfVariants)
	}
	// Absent keys keep their defaults.
	if limits.MaxDefinitions != 100 {
		t.Errorf("expected default definitions 100, got %d", limits.MaxDefinitions)
	}
	if !limits.SupportsFormat("email") {
		t.Error("expected default supported formats to survive a partial profile")
	}
}

func TestLoadLimitsEmptyProfile(t *testing.T) {
	limits, err := LoadLimits(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty profile should load defaults: %v", err)
	}
	if limits.MaxDepth != DefaultLimits().MaxDepth {
		t.Errorf("expected defaults, got %+v", limits)
	}
}

func TestLoadLimitsBadYAML(t *testing.T) {
	_, err := LoadLimits(strings.NewReader("max_depth: [not a number"))
	if err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
