package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsmith-ai/sdk/schema"
)

func testEnvelope(t *testing.T) *schema.Envelope {
	t.Helper()
	raw := `{"name":"card_review","value":{"type":"object","additionalProperties":false,"properties":{"overall":{"type":"integer"}},"required":["overall"]}}`
	var env schema.Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	return &env
}

func TestTaskIsValid(t *testing.T) {
	assert.True(t, TaskScore.IsValid())
	assert.True(t, TaskRewrite.IsValid())
	assert.True(t, TaskAnalyze.IsValid())
	assert.False(t, Task("summarize").IsValid())
	assert.False(t, Task("").IsValid())
}

func TestPromptBuilderDefaults(t *testing.T) {
	var b PromptBuilder
	messages, err := b.Build(TaskScore, "Name: Mira\nPersonality: dry wit, hates mornings.")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Score")
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Mira")
	assert.NotContains(t, messages[1].Content, "matching this schema")
}

func TestPromptBuilderSystemOverride(t *testing.T) {
	b := PromptBuilder{SystemPrompt: "Be terse."}
	messages, err := b.Build(TaskAnalyze, "card text")
	require.NoError(t, err)
	assert.Equal(t, "Be terse.", messages[0].Content)
}

func TestPromptBuilderSchemaBlock(t *testing.T) {
	b := PromptBuilder{Schema: testEnvelope(t)}
	messages, err := b.Build(TaskRewrite, "card text")
	require.NoError(t, err)

	user := messages[1].Content
	assert.Contains(t, user, "matching this schema")
	assert.Contains(t, user, `"card_review"`)
	assert.Contains(t, user, `"overall"`)
}

func TestPromptBuilderRejectsBadInput(t *testing.T) {
	var b PromptBuilder

	_, err := b.Build(Task("summarize"), "card text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task")

	_, err = b.Build(TaskScore, "   \n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestBuildRequest(t *testing.T) {
	b := PromptBuilder{Schema: testEnvelope(t)}
	req, err := b.BuildRequest(TaskScore, "card text", WithMaxTokens(512), WithTemperature(0.2))
	require.NoError(t, err)

	require.Len(t, req.Messages, 2)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 512, *req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.2, *req.Temperature)
	require.NotNil(t, req.ResponseSchema)
	assert.Equal(t, "card_review", req.ResponseSchema.Name)
}

func TestBuildRequestSchemaOptionWins(t *testing.T) {
	other := testEnvelope(t)
	other.Name = "other_schema"

	b := PromptBuilder{Schema: testEnvelope(t)}
	req, err := b.BuildRequest(TaskScore, "card text", WithResponseSchema(other))
	require.NoError(t, err)
	assert.Equal(t, "other_schema", req.ResponseSchema.Name)
}
