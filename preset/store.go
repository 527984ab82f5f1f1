package preset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cardsmith-ai/sdk/llm"
	"github.com/cardsmith-ai/sdk/schema"
)

var (
	// ErrNotFound is returned when a preset or session does not exist.
	ErrNotFound = errors.New("preset: not found")

	// ErrInvalidID is returned when an ID is empty or malformed.
	ErrInvalidID = errors.New("preset: invalid id")

	// ErrReadOnly is returned when modifying or deleting a built-in preset.
	ErrReadOnly = errors.New("preset: built-in presets are read-only")
)

// Kind distinguishes what a preset's content holds.
type Kind string

const (
	// KindPrompt marks a system-prompt preset.
	KindPrompt Kind = "prompt"

	// KindSchema marks a structured-output schema preset. Content is a
	// schema envelope as JSON.
	KindSchema Kind = "schema"
)

// IsValid checks if the kind is one of the defined constants.
func (k Kind) IsValid() bool {
	return k == KindPrompt || k == KindSchema
}

// Preset is a named, reusable prompt or schema.
type Preset struct {
	// ID uniquely identifies the preset. Generated on Put when empty.
	ID string `json:"id"`

	// Name is the human-readable preset name.
	Name string `json:"name"`

	// Kind says whether Content is a prompt or a schema envelope.
	Kind Kind `json:"kind"`

	// Content is the prompt text or the schema envelope JSON.
	Content string `json:"content"`

	// Builtin presets ship with the SDK and cannot be modified.
	Builtin bool `json:"builtin,omitempty"`

	// CreatedAt is when the preset was first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the preset was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the preset is well formed. Schema presets must carry an
// envelope that passes schema validation.
func (p *Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if !p.Kind.IsValid() {
		return fmt.Errorf("unknown preset kind %q", p.Kind)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("preset content cannot be empty")
	}
	if p.Kind == KindSchema {
		result := schema.Validate(p.Content)
		if !result.Valid {
			return fmt.Errorf("schema preset %q is invalid: %w", p.Name, result.Err)
		}
	}
	return nil
}

// SessionEntry is one recorded exchange in a card-review session.
type SessionEntry struct {
	// ID uniquely identifies the entry. Generated on Append when empty.
	ID string `json:"id"`

	// Task is the card task that produced this exchange.
	Task llm.Task `json:"task"`

	// Prompt is the card text or instruction that was sent.
	Prompt string `json:"prompt"`

	// Response is the model's reply.
	Response string `json:"response"`

	// Tokens is the usage recorded for the exchange.
	Tokens llm.TokenUsage `json:"tokens"`

	// CreatedAt is when the exchange happened.
	CreatedAt time.Time `json:"created_at"`
}

// PresetStore persists presets.
type PresetStore interface {
	// Get retrieves a preset by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Preset, error)

	// Put creates or updates a preset. An empty ID is filled with a new one.
	// Built-in presets reject updates with ErrReadOnly.
	Put(ctx context.Context, p *Preset) error

	// Delete removes a preset by ID. Built-in presets return ErrReadOnly.
	Delete(ctx context.Context, id string) error

	// List returns all presets, optionally filtered by kind (empty matches
	// all). Order is unspecified.
	List(ctx context.Context, kind Kind) ([]*Preset, error)
}

// SessionStore persists per-session exchange history.
type SessionStore interface {
	// Append adds an entry to a session's history.
	Append(ctx context.Context, sessionID string, entry *SessionEntry) error

	// History returns a session's entries in append order.
	History(ctx context.Context, sessionID string) ([]*SessionEntry, error)

	// Clear removes all entries for a session.
	Clear(ctx context.Context, sessionID string) error
}

// Store bundles preset and session persistence behind one backend.
type Store interface {
	Presets() PresetStore
	Sessions() SessionStore

	// Close releases the backend connection.
	Close() error
}
