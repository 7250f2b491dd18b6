package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTaskID_UniqueAndTimeOrdered(t *testing.T) {
	seen := map[string]bool{}
	prev := ""
	for i := 0; i < 200; i++ {
		id, err := NewTaskID()
		if err != nil {
			t.Fatalf("NewTaskID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if prev != "" && id <= prev {
			t.Fatalf("expected increasing ids, got %q after %q", id, prev)
		}
		prev = id
	}
}

func TestNewTaskID_IsUUIDv7(t *testing.T) {
	id, err := NewTaskID()
	if err != nil {
		t.Fatalf("NewTaskID: %v", err)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("parse %q: %v", id, err)
	}
	if got := u.Version(); got != 7 {
		t.Fatalf("expected version 7, got %d", got)
	}
}
