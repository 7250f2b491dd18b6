package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// exerciseBlobStore checks the contract every backend shares.
func exerciseBlobStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v; want absent", ok, err)
	}
	if err := s.Set(ctx, "todoData", `{"toDo":[],"done":[]}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "todoData")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if v != `{"toDo":[],"done":[]}` {
		t.Fatalf("unexpected value %q", v)
	}
	if err := s.Set(ctx, "todoData", "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "todoData"); v != "second" {
		t.Fatalf("expected overwrite to win, got %q", v)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStore(dir)
	exerciseBlobStore(t, s)

	if _, err := os.Stat(filepath.Join(dir, "todoData.json")); err != nil {
		t.Fatalf("expected blob file: %v", err)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("left temp file behind: %s", e.Name())
		}
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.Set(context.Background(), "../escape", "x"); err == nil {
		t.Fatalf("expected error for key with path separator")
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", sqliteFileName)
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseBlobStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Values survive reopening.
	s2, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if v, ok, err := s2.Get(ctx, "todoData"); err != nil || !ok || v != "second" {
		t.Fatalf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	exerciseBlobStore(t, s)

	if got, err := mr.Get("taskboard:todoData"); err != nil || got != "second" {
		t.Fatalf("expected prefixed key in redis, got %q err=%v", got, err)
	}
	if mr.TTL("taskboard:todoData") != 0 {
		t.Fatalf("expected no expiry on board blobs")
	}
}

func TestRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not-a-url"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("TASKBOARD_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("TASKBOARD_TEST_DATABASE_URL is not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer s.Close()
	if _, err := s.db.Exec(`DELETE FROM taskboard_blobs WHERE k IN ('missing', 'todoData')`); err != nil {
		t.Fatalf("reset: %v", err)
	}
	exerciseBlobStore(t, s)
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", BackendSQLite, BackendFile, BackendMemory} {
		s, err := Open(ctx, Settings{Backend: backend, DataDir: dir})
		if err != nil {
			t.Fatalf("Open(%q): %v", backend, err)
		}
		exerciseBlobStore(t, s)
		_ = s.Close()
	}

	if _, err := Open(ctx, Settings{Backend: BackendRedis}); err == nil {
		t.Fatalf("expected redis without url to fail")
	}
	if _, err := Open(ctx, Settings{Backend: BackendPostgres}); err == nil {
		t.Fatalf("expected postgres without url to fail")
	}
	if _, err := Open(ctx, Settings{Backend: "etcd"}); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}
