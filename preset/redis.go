package preset

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// Namespace prefixes every key. Defaults to "cardsmith".
	Namespace string

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// Logger receives connection events. Defaults to slog.Default().
	Logger *slog.Logger
}

// RedisStore implements Store using go-redis/v9.
//
// Key layout:
//
//	<ns>:preset:<id>   preset JSON
//	<ns>:presets       set of preset IDs
//	<ns>:session:<id>  list of session entry JSON, append order
type RedisStore struct {
	client    *redis.Client
	namespace string
	log       *slog.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Namespace == "" {
		opts.Namespace = "cardsmith"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	opts.Logger.Debug("connected to redis preset store", "namespace", opts.Namespace)

	return &RedisStore{
		client:    client,
		namespace: opts.Namespace,
		log:       opts.Logger,
	}, nil
}

// Presets returns the preset store.
func (s *RedisStore) Presets() PresetStore { return (*redisPresets)(s) }

// Sessions returns the session store.
func (s *RedisStore) Sessions() SessionStore { return (*redisSessions)(s) }

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) presetKey(id string) string {
	return fmt.Sprintf("%s:preset:%s", s.namespace, id)
}

func (s *RedisStore) presetSetKey() string {
	return fmt.Sprintf("%s:presets", s.namespace)
}

func (s *RedisStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.namespace, id)
}

type redisPresets RedisStore

func (s *redisPresets) Get(ctx context.Context, id string) (*Preset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	data, err := s.client.Get(ctx, (*RedisStore)(s).presetKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preset %s: %w", id, err)
	}

	var p Preset
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset %s: %w", id, err)
	}
	return &p, nil
}

func (s *redisPresets) Put(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else {
		existing, err := s.Get(ctx, p.ID)
		switch {
		case err == nil:
			if existing.Builtin {
				return ErrReadOnly
			}
			p.CreatedAt = existing.CreatedAt
		case err == ErrNotFound:
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
		default:
			return err
		}
	}
	p.UpdatedAt = now

	return s.write(ctx, p)
}

func (s *redisPresets) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Builtin {
		return ErrReadOnly
	}

	store := (*RedisStore)(s)
	if err := s.client.Del(ctx, store.presetKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	if err := s.client.SRem(ctx, store.presetSetKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to remove preset %s from index: %w", id, err)
	}
	return nil
}

func (s *redisPresets) List(ctx context.Context, kind Kind) ([]*Preset, error) {
	store := (*RedisStore)(s)
	ids, err := s.client.SMembers(ctx, store.presetSetKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	out := make([]*Preset, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			// Skip entries deleted between SMEMBERS and GET
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		if kind != "" && p.Kind != kind {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// seed installs a built-in preset directly, bypassing the read-only check.
func (s *redisPresets) seed(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	return s.write(ctx, p)
}

func (s *redisPresets) write(ctx context.Context, p *Preset) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	store := (*RedisStore)(s)
	if err := s.client.Set(ctx, store.presetKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store preset %s: %w", p.ID, err)
	}
	if err := s.client.SAdd(ctx, store.presetSetKey(), p.ID).Err(); err != nil {
		return fmt.Errorf("failed to index preset %s: %w", p.ID, err)
	}
	return nil
}

type redisSessions RedisStore

func (s *redisSessions) Append(ctx context.Context, sessionID string, entry *SessionEntry) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidID
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}

	key := (*RedisStore)(s).sessionKey(sessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append to session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisSessions) History(ctx context.Context, sessionID string) ([]*SessionEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidID
	}

	key := (*RedisStore)(s).sessionKey(sessionID)
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	out := make([]*SessionEntry, 0, len(items))
	for _, item := range items {
		var entry SessionEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
		}
		out = append(out, &entry)
	}
	return out, nil
}

func (s *redisSessions) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidID
	}

	key := (*RedisStore)(s).sessionKey(sessionID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}
