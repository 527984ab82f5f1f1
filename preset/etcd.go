package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdOptions configures the etcd-backed store.
type EtcdOptions struct {
	// Endpoints lists the etcd cluster members.
	Endpoints []string

	// Namespace prefixes every key. Defaults to "cardsmith".
	Namespace string

	// DialTimeout is the maximum time to wait for the initial connection.
	DialTimeout time.Duration

	// Logger receives connection events. Defaults to slog.Default().
	Logger *slog.Logger
}

// EtcdStore implements Store on an etcd cluster.
//
// Key layout:
//
//	/<ns>/preset/<id>                preset JSON
//	/<ns>/session/<sid>/<seq>-<id>   session entry JSON
//
// Session entry keys embed a nanosecond sequence so a prefix scan returns
// entries in append order.
type EtcdStore struct {
	client    *clientv3.Client
	namespace string
	log       *slog.Logger
}

// NewEtcdStore connects to etcd and verifies connectivity with a quick read.
func NewEtcdStore(opts EtcdOptions) (*EtcdStore, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if opts.Namespace == "" {
		opts.Namespace = "cardsmith"
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	opts.Logger.Debug("connected to etcd preset store", "namespace", opts.Namespace)

	return &EtcdStore{
		client:    cli,
		namespace: opts.Namespace,
		log:       opts.Logger,
	}, nil
}

// Presets returns the preset store.
func (s *EtcdStore) Presets() PresetStore { return (*etcdPresets)(s) }

// Sessions returns the session store.
func (s *EtcdStore) Sessions() SessionStore { return (*etcdSessions)(s) }

// Close closes the etcd client.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}

func (s *EtcdStore) presetKey(id string) string {
	return fmt.Sprintf("/%s/preset/%s", s.namespace, id)
}

func (s *EtcdStore) presetPrefix() string {
	return fmt.Sprintf("/%s/preset/", s.namespace)
}

func (s *EtcdStore) sessionPrefix(sessionID string) string {
	return fmt.Sprintf("/%s/session/%s/", s.namespace, sessionID)
}

type etcdPresets EtcdStore

func (s *etcdPresets) Get(ctx context.Context, id string) (*Preset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	resp, err := s.client.Get(ctx, (*EtcdStore)(s).presetKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get preset %s: %w", id, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}

	var p Preset
	if err := json.Unmarshal(resp.Kvs[0].Value, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset %s: %w", id, err)
	}
	return &p, nil
}

func (s *etcdPresets) Put(ctx context.Context, p *Preset) error {
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

func (s *etcdPresets) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Builtin {
		return ErrReadOnly
	}

	_, err = s.client.Delete(ctx, (*EtcdStore)(s).presetKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	return nil
}

func (s *etcdPresets) List(ctx context.Context, kind Kind) ([]*Preset, error) {
	resp, err := s.client.Get(ctx, (*EtcdStore)(s).presetPrefix(), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	out := make([]*Preset, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var p Preset
		if err := json.Unmarshal(kv.Value, &p); err != nil {
			// Skip invalid entries
			continue
		}
		if kind != "" && p.Kind != kind {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

// seed installs a built-in preset directly, bypassing the read-only check.
func (s *etcdPresets) seed(ctx context.Context, p *Preset) error {
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

func (s *etcdPresets) write(ctx context.Context, p *Preset) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	_, err = s.client.Put(ctx, (*EtcdStore)(s).presetKey(p.ID), string(data))
	if err != nil {
		return fmt.Errorf("failed to store preset %s: %w", p.ID, err)
	}
	return nil
}

type etcdSessions EtcdStore

func (s *etcdSessions) Append(ctx context.Context, sessionID string, entry *SessionEntry) error {
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

	key := fmt.Sprintf("%s%020d-%s", (*EtcdStore)(s).sessionPrefix(sessionID), time.Now().UnixNano(), entry.ID)
	_, err = s.client.Put(ctx, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to append to session %s: %w", sessionID, err)
	}
	return nil
}

func (s *etcdSessions) History(ctx context.Context, sessionID string) ([]*SessionEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidID
	}

	resp, err := s.client.Get(ctx, (*EtcdStore)(s).sessionPrefix(sessionID),
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	out := make([]*SessionEntry, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var entry SessionEntry
		if err := json.Unmarshal(kv.Value, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
		}
		out = append(out, &entry)
	}
	return out, nil
}

func (s *etcdSessions) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidID
	}

	_, err := s.client.Delete(ctx, (*EtcdStore)(s).sessionPrefix(sessionID), clientv3.WithPrefix())
	if err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}
