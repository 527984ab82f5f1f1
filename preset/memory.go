package preset

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process use.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	presets  map[string]*Preset
	sessions map[string][]*SessionEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		presets:  make(map[string]*Preset),
		sessions: make(map[string][]*SessionEntry),
	}
}

// Presets returns the preset store.
func (s *MemoryStore) Presets() PresetStore { return (*memoryPresets)(s) }

// Sessions returns the session store.
func (s *MemoryStore) Sessions() SessionStore { return (*memorySessions)(s) }

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

type memoryPresets MemoryStore

func (s *memoryPresets) Get(_ context.Context, id string) (*Preset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *memoryPresets) Put(_ context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else if existing, ok := s.presets[p.ID]; ok {
		if existing.Builtin {
			return ErrReadOnly
		}
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	clone := *p
	s.presets[p.ID] = &clone
	return nil
}

func (s *memoryPresets) Delete(_ context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presets[id]
	if !ok {
		return ErrNotFound
	}
	if p.Builtin {
		return ErrReadOnly
	}
	delete(s.presets, id)
	return nil
}

func (s *memoryPresets) List(_ context.Context, kind Kind) ([]*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Preset, 0, len(s.presets))
	for _, p := range s.presets {
		if kind != "" && p.Kind != kind {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

// seed installs a built-in preset directly, bypassing the read-only check.
func (s *memoryPresets) seed(_ context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	clone := *p
	s.presets[p.ID] = &clone
	return nil
}

type memorySessions MemoryStore

func (s *memorySessions) Append(_ context.Context, sessionID string, entry *SessionEntry) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	clone := *entry
	s.sessions[sessionID] = append(s.sessions[sessionID], &clone)
	return nil
}

func (s *memorySessions) History(_ context.Context, sessionID string) ([]*SessionEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sessions[sessionID]
	out := make([]*SessionEntry, 0, len(entries))
	for _, e := range entries {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memorySessions) Clear(_ context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
