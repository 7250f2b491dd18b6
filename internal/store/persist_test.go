package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"taskboard/internal/model"
)

type failingGetStore struct{ *MemoryStore }

func (failingGetStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("boom")
}

func TestLoadState_AbsentKeyUsesSeed(t *testing.T) {
	st, info := LoadState(context.Background(), NewMemoryStore(), DefaultKey)
	if !reflect.DeepEqual(st, model.SeedState()) {
		t.Fatalf("expected seed state, got %+v", st)
	}
	if info.Source != "seed" || info.Reason != "absent" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestLoadState_CorruptValueUsesSeed(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"not json", `"not json"`, "null", "[1,2]", `{"toDo": 5}`, `{"toDo":[{"id":1}]}`} {
		m := NewMemoryStore()
		_ = m.Set(ctx, DefaultKey, raw)

		st, info := LoadState(ctx, m, DefaultKey)
		if len(st.Pending) != 2 || len(st.Completed) != 1 {
			t.Fatalf("raw=%q: expected seed (2 pending + 1 completed), got %+v", raw, st)
		}
		if info.Source != "seed" || info.Reason != "corrupt" || info.Err == nil {
			t.Fatalf("raw=%q: unexpected info: %+v", raw, info)
		}
	}
}

func TestLoadState_ReadErrorUsesSeed(t *testing.T) {
	st, info := LoadState(context.Background(), failingGetStore{NewMemoryStore()}, DefaultKey)
	if !reflect.DeepEqual(st, model.SeedState()) || info.Reason != "read-error" {
		t.Fatalf("unexpected load: %+v %+v", st, info)
	}
}

func TestLoadState_MissingListsDecodeEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.Set(ctx, DefaultKey, `{"toDo":[{"id":"a","text":"Alpha"}]}`)

	st, info := LoadState(ctx, m, DefaultKey)
	if info.Source != "stored" {
		t.Fatalf("expected stored state, got %+v", info)
	}
	if len(st.Pending) != 1 || len(st.Completed) != 0 {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestDecodeState_DropsDuplicateAndBlankIDs(t *testing.T) {
	raw := `{"toDo":[{"id":"a","text":"Alpha"},{"id":"","text":"Blank"},{"id":"a","text":"Again"}],"done":[{"id":"a","text":"Cross"},{"id":"b","text":"Beta","notes":"n"}]}`
	st, dropped, err := DecodeState(raw)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if dropped != 3 {
		t.Fatalf("expected 3 dropped, got %d", dropped)
	}
	if got := st.Pending.IDs(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("pending = %v", got)
	}
	if got := st.Completed.IDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("completed = %v", got)
	}
	if st.Completed[0].Notes != "n" {
		t.Fatalf("expected notes to survive decode")
	}
}

func TestDecodeState_DropsContainerSentinelIDs(t *testing.T) {
	raw := `{"toDo":[{"id":"pending-container","text":"Looks like a column"},{"id":"1","text":"Keep me"}],"done":[{"id":" completed-container ","text":"Also a column"}]}`
	st, dropped, err := DecodeState(raw)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	if got := st.Pending.IDs(); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("pending = %v", got)
	}
	if len(st.Completed) != 0 {
		t.Fatalf("completed = %v", st.Completed.IDs())
	}
}

func TestDecodeState_KeepsStoredTextAsIs(t *testing.T) {
	long := strings.Repeat("x", 150)
	raw := `{"toDo":[{"id":"a","text":"ab"},{"id":"b","text":"` + long + `"}],"done":[]}`
	st, dropped, err := DecodeState(raw)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if dropped != 0 || len(st.Pending) != 2 {
		t.Fatalf("expected stored tasks kept, got %+v dropped=%d", st, dropped)
	}
	if st.Pending[0].Text != "ab" || st.Pending[1].Text != long {
		t.Fatalf("expected text untouched: %+v", st.Pending)
	}
}

func TestSaveState_ThenLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	want := model.AppState{
		Pending:   model.TaskList{{ID: "x", Text: "Write tests", Notes: "table-free"}},
		Completed: model.TaskList{},
	}
	if err := SaveState(ctx, m, DefaultKey, want); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	raw, _, _ := m.Get(ctx, DefaultKey)
	if raw != `{"toDo":[{"id":"x","text":"Write tests","notes":"table-free"}],"done":[]}` {
		t.Fatalf("unexpected blob: %s", raw)
	}
	got, info := LoadState(ctx, m, DefaultKey)
	if info.Source != "stored" || !reflect.DeepEqual(got, want) {
		t.Fatalf("load after save = %+v (%+v), want %+v", got, info, want)
	}
}
