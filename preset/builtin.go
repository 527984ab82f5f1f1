package preset

import (
	"context"
	"fmt"
)

// Built-in preset IDs. Stable across versions so hosts can reference them.
const (
	BuiltinScorePromptID   = "builtin-prompt-score"
	BuiltinRewritePromptID = "builtin-prompt-rewrite"
	BuiltinAnalyzePromptID = "builtin-prompt-analyze"
	BuiltinReviewSchemaID  = "builtin-schema-card-review"
)

// cardReviewSchema is the structured-output envelope for the score task.
const cardReviewSchema = `{
  "name": "card_review",
  "strict": true,
  "value": {
    "type": "object",
    "additionalProperties": false,
    "properties": {
      "overall": {
        "type": "integer",
        "description": "Overall score from 1 to 10"
      },
      "voice": {
        "type": "integer",
        "description": "Voice score from 1 to 10"
      },
      "detail": {
        "type": "integer",
        "description": "Detail score from 1 to 10"
      },
      "consistency": {
        "type": "integer",
        "description": "Internal consistency score from 1 to 10"
      },
      "feedback": {
        "type": "string",
        "description": "Short rationale covering every score"
      }
    },
    "required": ["overall", "voice", "detail", "consistency", "feedback"]
  }
}`

// Builtins returns the presets that ship with the SDK. Callers receive fresh
// copies and may not rely on pointer identity.
func Builtins() []*Preset {
	return []*Preset{
		{
			ID:      BuiltinScorePromptID,
			Name:    "Score card",
			Kind:    KindPrompt,
			Content: "You are an experienced character-card reviewer. Score the card on voice, detail, and internal consistency, each from 1 to 10, and give an overall score with a short rationale for every number.",
			Builtin: true,
		},
		{
			ID:      BuiltinRewritePromptID,
			Name:    "Rewrite card",
			Kind:    KindPrompt,
			Content: "You are an experienced character-card editor. Rewrite the card to fix the weaknesses the user points out, preserving the character's voice, established facts, and overall length.",
			Builtin: true,
		},
		{
			ID:      BuiltinAnalyzePromptID,
			Name:    "Analyze card",
			Kind:    KindPrompt,
			Content: "You are an experienced character-card reviewer. Analyze the card: identify its strongest and weakest sections, contradictions, and concrete opportunities for improvement.",
			Builtin: true,
		},
		{
			ID:      BuiltinReviewSchemaID,
			Name:    "Card review schema",
			Kind:    KindSchema,
			Content: cardReviewSchema,
			Builtin: true,
		},
	}
}

// seeder is implemented by every backend's preset store to install built-in
// presets past the read-only check.
type seeder interface {
	seed(ctx context.Context, p *Preset) error
}

// Seed installs the built-in presets into the store. Existing entries with
// the same IDs are overwritten, which keeps built-ins current after an SDK
// upgrade.
func Seed(ctx context.Context, store Store) error {
	s, ok := store.Presets().(seeder)
	if !ok {
		return fmt.Errorf("preset: store %T does not support seeding", store)
	}

	for _, p := range Builtins() {
		if err := s.seed(ctx, p); err != nil {
			return fmt.Errorf("failed to seed preset %s: %w", p.ID, err)
		}
	}
	return nil
}
