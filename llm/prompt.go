package llm

import (
	"fmt"
	"strings"

	"github.com/cardsmith-ai/sdk/schema"
)

// Task identifies one of the card-review flows.
type Task string

const (
	// TaskScore asks the model to grade a character card.
	TaskScore Task = "score"

	// TaskRewrite asks the model to rewrite a character card.
	TaskRewrite Task = "rewrite"

	// TaskAnalyze asks the model for a qualitative breakdown of a card.
	TaskAnalyze Task = "analyze"
)

// IsValid checks if the task is one of the defined constants.
func (t Task) IsValid() bool {
	switch t {
	case TaskScore, TaskRewrite, TaskAnalyze:
		return true
	default:
		return false
	}
}

// String returns a string representation of the task.
func (t Task) String() string {
	return string(t)
}

// Default per-task instructions. A PromptBuilder's SystemPrompt overrides
// these.
var taskInstructions = map[Task]string{
	TaskScore: "You are an experienced character-card reviewer. Score the character card " +
		"the user provides on voice, detail, and internal consistency, each from 1 to 10, " +
		"and give an overall score with a short rationale for every number.",
	TaskRewrite: "You are an experienced character-card editor. Rewrite the character card " +
		"the user provides to fix the weaknesses they point out, preserving the character's " +
		"voice, established facts, and overall length.",
	TaskAnalyze: "You are an experienced character-card reviewer. Analyze the character card " +
		"the user provides: identify its strongest and weakest sections, contradictions, and " +
		"concrete opportunities for improvement.",
}

// PromptBuilder assembles the message list for a card task. The zero value
// uses the default instruction for each task and no response schema.
type PromptBuilder struct {
	// SystemPrompt overrides the default per-task instruction when set.
	SystemPrompt string

	// Schema, when set, appends a structured-output instruction block to the
	// user message so models without native structured output still try to
	// comply.
	Schema *schema.Envelope
}

// Build assembles the conversation for the given task and card text.
func (b *PromptBuilder) Build(task Task, card string) ([]Message, error) {
	if !task.IsValid() {
		return nil, fmt.Errorf("unknown task %q", task)
	}
	if strings.TrimSpace(card) == "" {
		return nil, fmt.Errorf("card text cannot be empty")
	}

	system := b.SystemPrompt
	if system == "" {
		system = taskInstructions[task]
	}

	var user strings.Builder
	user.WriteString("Character card:\n\n")
	user.WriteString(card)
	if b.Schema != nil {
		user.WriteString("\n\nRespond with a single JSON object matching this schema:\n")
		user.WriteString(schema.Format(b.Schema))
	}

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user.String()},
	}, nil
}

// BuildRequest assembles the conversation and wraps it in a completion
// request, attaching the builder's schema as the response schema.
func (b *PromptBuilder) BuildRequest(task Task, card string, opts ...CompletionOption) (*CompletionRequest, error) {
	messages, err := b.Build(task, card)
	if err != nil {
		return nil, err
	}
	req := NewCompletionRequest(messages, opts...)
	if req.ResponseSchema == nil {
		req.ResponseSchema = b.Schema
	}
	return req, nil
}
