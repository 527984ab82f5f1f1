package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsmith-ai/sdk/schema"
)

func TestBuiltinsAreValid(t *testing.T) {
	builtins := Builtins()
	require.Len(t, builtins, 4)

	seen := make(map[string]bool)
	for _, p := range builtins {
		assert.True(t, p.Builtin, "%s must be marked builtin", p.ID)
		assert.NoError(t, p.Validate(), "%s must validate", p.ID)
		assert.False(t, seen[p.ID], "duplicate builtin ID %s", p.ID)
		seen[p.ID] = true
	}
}

func TestBuiltinSchemaValidatesCleanly(t *testing.T) {
	var found bool
	for _, p := range Builtins() {
		if p.Kind != KindSchema {
			continue
		}
		found = true

		result := schema.Validate(p.Content)
		require.True(t, result.Valid, "builtin schema %s: %v", p.ID, result.Err)
		assert.Empty(t, result.Warnings, "builtin schema %s should produce no warnings", p.ID)
	}
	require.True(t, found)
}

func TestBuiltinsReturnFreshCopies(t *testing.T) {
	a := Builtins()
	a[0].Content = "mutated"

	b := Builtins()
	assert.NotEqual(t, "mutated", b[0].Content)
}
