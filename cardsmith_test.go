package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsmith-ai/sdk/schema"
)

func TestValidateSchema(t *testing.T) {
	result := ValidateSchema(`{
		"name": "card_review",
		"value": {
			"type": "object",
			"additionalProperties": false,
			"properties": {"overall": {"type": "integer"}},
			"required": ["overall"]
		}
	}`)
	require.True(t, result.Valid)
	require.NotNil(t, result.Schema)
	assert.Equal(t, "card_review", result.Schema.Name)
	assert.True(t, result.Schema.IsStrict())
}

func TestValidateSchemaInvalid(t *testing.T) {
	result := ValidateSchema(`{"name": "x"}`)
	require.False(t, result.Valid)
	require.NotNil(t, result.Err)
	assert.Equal(t, schema.KindShape, result.Err.Kind)
}

func TestAutoFixAndFormat(t *testing.T) {
	result := ValidateSchema(`{
		"name": "s",
		"value": {
			"type": "object",
			"properties": {"tags": {"type": "array", "minItems": 3}},
			"required": ["tags"]
		}
	}`)
	require.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)

	fixed := AutoFixSchema(result.Schema)
	require.NotNil(t, fixed)

	out := FormatSchema(fixed)
	assert.Contains(t, out, `"additionalProperties": false`)
	assert.NotContains(t, out, `"minItems": 3`)
}

func TestParseStructuredResponse(t *testing.T) {
	result := ValidateSchema(`{
		"name": "s",
		"value": {
			"type": "object",
			"additionalProperties": false,
			"properties": {"overall": {"type": "integer"}},
			"required": ["overall"]
		}
	}`)
	require.True(t, result.Valid)

	parsed, err := ParseStructuredResponse("Here you go:\n```json\n{\"overall\": 7}\n```", result.Schema)
	require.NoError(t, err)

	obj, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), obj["overall"])
	assert.Empty(t, parsed.Warnings)
}
