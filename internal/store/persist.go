package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"taskboard/internal/model"
)

// wireState is the persisted blob shape, the same `todoData` value the browser board
// keeps in localStorage, so a blob copied from there loads as-is.
type wireState struct {
	ToDo []model.Task `json:"toDo"`
	Done []model.Task `json:"done"`
}

// LoadInfo describes where a loaded state came from.
type LoadInfo struct {
	// Source is "stored" or "seed".
	Source string `json:"source"`
	// Reason is set when Source == "seed": "absent", "corrupt" or "read-error".
	Reason string `json:"reason,omitempty"`
	// Dropped counts tasks skipped for a blank or duplicate id.
	Dropped int   `json:"dropped,omitempty"`
	Err     error `json:"-"`
}

var errNotObject = errors.New("state blob is not a JSON object")

// EncodeState serializes state into the persisted blob format.
func EncodeState(state model.AppState) (string, error) {
	w := wireState{ToDo: state.Pending, Done: state.Completed}
	if w.ToDo == nil {
		w.ToDo = []model.Task{}
	}
	if w.Done == nil {
		w.Done = []model.Task{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeState parses a persisted blob. A missing list decodes as empty; tasks with a blank
// or already-seen id are dropped (first occurrence wins) and counted.
func DecodeState(raw string) (model.AppState, int, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return model.AppState{}, 0, err
	}
	if obj == nil {
		return model.AppState{}, 0, errNotObject
	}
	var w wireState
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return model.AppState{}, 0, err
	}

	// Blank, duplicate and container-sentinel ids are dropped. Text is kept as stored,
	// even outside the length bounds enforced on add and edit.
	seen := map[string]bool{}
	dropped := 0
	clean := func(in []model.Task) model.TaskList {
		out := make(model.TaskList, 0, len(in))
		for _, t := range in {
			id := strings.TrimSpace(t.ID)
			if _, sentinel := model.ContainerList(id); id == "" || sentinel || seen[id] {
				dropped++
				continue
			}
			seen[id] = true
			t.ID = id
			out = append(out, t)
		}
		return out
	}
	st := model.AppState{Pending: clean(w.ToDo)}
	st.Completed = clean(w.Done)
	return st, dropped, nil
}

// LoadState reads the board state under key. It never fails: an absent key, a read
// error or an unparseable value all yield the seed state, described by LoadInfo.
func LoadState(ctx context.Context, blobs BlobStore, key string) (model.AppState, LoadInfo) {
	raw, ok, err := blobs.Get(ctx, key)
	if err != nil {
		return model.SeedState(), LoadInfo{Source: "seed", Reason: "read-error", Err: err}
	}
	if !ok {
		return model.SeedState(), LoadInfo{Source: "seed", Reason: "absent"}
	}
	st, dropped, err := DecodeState(raw)
	if err != nil {
		return model.SeedState(), LoadInfo{Source: "seed", Reason: "corrupt", Err: err}
	}
	return st, LoadInfo{Source: "stored", Dropped: dropped}
}

// SaveState serializes state and writes it under key.
func SaveState(ctx context.Context, blobs BlobStore, key string, state model.AppState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	return blobs.Set(ctx, key, raw)
}
