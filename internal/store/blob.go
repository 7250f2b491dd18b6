package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// BlobStore is a string-keyed store of string values.
// Get reports ok=false (and no error) when the key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultKey is the blob key the board state lives under.
const DefaultKey = "todoData"

// Backends lists the supported backend names in display order.
func Backends() []string {
	return []string{BackendSQLite, BackendFile, BackendMemory, BackendRedis, BackendPostgres}
}

// Open opens the blob store described by cfg.
func Open(ctx context.Context, cfg Settings) (BlobStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(cfg.DataDir, sqliteFileName))
	case BackendFile:
		return NewFileStore(cfg.DataDir), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("backend %q requires redisURL", BackendRedis)
		}
		return NewRedisStore(ctx, cfg.RedisURL)
	case BackendPostgres:
		if strings.TrimSpace(cfg.PostgresURL) == "" {
			return nil, fmt.Errorf("backend %q requires postgresURL", BackendPostgres)
		}
		return OpenPostgres(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown backend: %s (expected %s)", cfg.Backend, strings.Join(Backends(), "|"))
	}
}

// MemoryStore keeps blobs in process memory. Used by tests and `--backend memory`.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string

	// SetErr, when non-nil, is returned by every Set (tests use it to simulate write failures).
	SetErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
