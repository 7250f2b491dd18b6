// Package board owns the live board state for one session: it loads it through the
// persistence bridge, applies commands one at a time and writes every change through to
// the blob store.
package board

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"taskboard/internal/dnd"
	"taskboard/internal/model"
	"taskboard/internal/mutate"
	"taskboard/internal/store"
)

type Option func(*Board)

// WithKey sets the blob key (default store.DefaultKey).
func WithKey(key string) Option {
	return func(b *Board) {
		if k := strings.TrimSpace(key); k != "" {
			b.key = k
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// WithIDs replaces the task id generator.
func WithIDs(next func() (string, error)) Option {
	return func(b *Board) {
		if next != nil {
			b.newID = next
		}
	}
}

func WithResolveOptions(o dnd.Options) Option {
	return func(b *Board) { b.resolve = o }
}

type Board struct {
	mu      sync.Mutex
	blobs   store.BlobStore
	key     string
	log     *slog.Logger
	newID   func() (string, error)
	resolve dnd.Options

	state    model.AppState
	loadInfo store.LoadInfo
	version  uint64

	subsMu sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// New loads the board from blobs. Loading never fails; see store.LoadState.
func New(ctx context.Context, blobs store.BlobStore, opts ...Option) *Board {
	b := &Board{
		blobs: blobs,
		key:   store.DefaultKey,
		log:   slog.Default(),
		newID: store.NewTaskID,
		subs:  map[int]chan struct{}{},
	}
	for _, o := range opts {
		o(b)
	}
	b.state, b.loadInfo = store.LoadState(ctx, blobs, b.key)
	if b.loadInfo.Source == "seed" && b.loadInfo.Reason != "absent" {
		b.log.Warn("board: stored state unusable, using defaults", "key", b.key, "reason", b.loadInfo.Reason, "err", b.loadInfo.Err)
	}
	if b.loadInfo.Dropped > 0 {
		b.log.Warn("board: dropped tasks with blank or duplicate ids", "key", b.key, "dropped", b.loadInfo.Dropped)
	}
	return b
}

// State returns the current state. Callers must treat the lists as read-only.
func (b *Board) State() model.AppState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Version increments on every applied change.
func (b *Board) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

func (b *Board) LoadInfo() store.LoadInfo { return b.loadInfo }

func (b *Board) Key() string { return b.key }

// Add creates a pending task. It reports false for invalid text.
func (b *Board) Add(ctx context.Context, text string) (model.Task, bool) {
	if !mutate.ValidateText(text).Valid {
		return model.Task{}, false
	}
	id, err := b.newID()
	if err != nil {
		b.log.Error("board: id generation failed", "err", err)
		return model.Task{}, false
	}
	res := b.apply(ctx, "add", func(s model.AppState) mutate.Result { return mutate.AddTask(s, text, id) })
	return res.Task, res.Changed
}

// EditText replaces a task's text; invalid text keeps the original.
func (b *Board) EditText(ctx context.Context, id, text string) (model.Task, bool) {
	res := b.apply(ctx, "edit", func(s model.AppState) mutate.Result { return mutate.EditText(s, id, text) })
	return res.Task, res.Changed
}

func (b *Board) EditNotes(ctx context.Context, id, notes string) (model.Task, bool) {
	res := b.apply(ctx, "notes", func(s model.AppState) mutate.Result { return mutate.EditNotes(s, id, notes) })
	return res.Task, res.Changed
}

func (b *Board) Delete(ctx context.Context, id string) (model.Task, bool) {
	res := b.apply(ctx, "delete", func(s model.AppState) mutate.Result { return mutate.DeleteTask(s, id) })
	return res.Task, res.Changed
}

// Move moves id to list `to` at index (negative appends).
func (b *Board) Move(ctx context.Context, id string, to model.ListID, index int) (model.Task, bool, error) {
	var moveErr error
	res := b.apply(ctx, "move", func(s model.AppState) mutate.Result {
		r, err := mutate.Transfer(s, id, to, index)
		moveErr = err
		return r
	})
	return res.Task, res.Changed, moveErr
}

// DragEnd resolves a drag-end event against the current state and applies it.
// The returned move is only meaningful when ok is true.
func (b *Board) DragEnd(ctx context.Context, ev model.DragEnd) (model.Move, bool) {
	var mv model.Move
	var resolved bool
	res := b.apply(ctx, "drag", func(s model.AppState) mutate.Result {
		mv, resolved = dnd.Resolve(ev, s.Pending, s.Completed, b.resolve)
		if !resolved {
			return mutate.Result{State: s}
		}
		next := mutate.ApplyMove(s, mv)
		t, _, _ := next.Find(mv.TaskID)
		_, idx, _ := next.Locate(mv.TaskID)
		return mutate.Result{State: next, Task: t, Changed: mv.From != mv.To || idx != mv.FromIndex}
	})
	if !res.Changed {
		return model.Move{}, false
	}
	return mv, true
}

// Reset replaces the board with the seed state.
func (b *Board) Reset(ctx context.Context) {
	b.apply(ctx, "reset", func(model.AppState) mutate.Result {
		return mutate.Result{State: model.SeedState(), Changed: true}
	})
}

// apply runs one command to completion under the lock, then writes the result through.
// A failed write is logged and swallowed: the in-memory state stays authoritative.
func (b *Board) apply(ctx context.Context, op string, cmd func(model.AppState) mutate.Result) mutate.Result {
	b.mu.Lock()
	res := cmd(b.state)
	if !res.Changed {
		b.mu.Unlock()
		return res
	}
	b.state = res.State
	b.version++
	if err := store.SaveState(ctx, b.blobs, b.key, b.state); err != nil {
		b.log.Error("board: persist failed", "op", op, "key", b.key, "err", err)
	}
	b.mu.Unlock()

	b.notify()
	return res
}

// Subscribe returns a channel that receives a value after every applied change
// (coalesced when the reader is slow) and a cancel func.
func (b *Board) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.subsMu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.subsMu.Lock()
			delete(b.subs, id)
			b.subsMu.Unlock()
		})
	}
}

func (b *Board) notify() {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
