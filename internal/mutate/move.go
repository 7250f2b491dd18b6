package mutate

import (
	"strings"

	"taskboard/internal/model"
)

// ApplyMove applies a resolved move and returns the new state.
//
// Same-list moves are array moves: the task is removed at FromIndex and reinserted at
// ToIndex. Cross-list moves insert at ToIndex in the destination (clamped to the end).
// A stale move (task no longer at FromIndex) returns state unchanged.
//
// The input state is never modified. Lists the move does not touch are returned as-is.
func ApplyMove(state model.AppState, mv model.Move) model.AppState {
	if !mv.From.Valid() || !mv.To.Valid() {
		return state
	}
	src := state.List(mv.From)
	if mv.FromIndex < 0 || mv.FromIndex >= len(src) || src[mv.FromIndex].ID != mv.TaskID {
		return state
	}
	task := src[mv.FromIndex]

	rest := make(model.TaskList, 0, len(src)-1)
	rest = append(rest, src[:mv.FromIndex]...)
	rest = append(rest, src[mv.FromIndex+1:]...)

	if mv.SameList() {
		to := clampIndex(mv.ToIndex, len(rest))
		if to == mv.FromIndex {
			return state
		}
		return state.WithList(mv.From, insertAt(rest, to, task))
	}

	dst := state.List(mv.To)
	if dst.IndexOf(task.ID) >= 0 {
		// Would duplicate the task; the state is already inconsistent with the move.
		return state
	}
	next := state.WithList(mv.From, rest)
	return next.WithList(mv.To, insertAt(dst, clampIndex(mv.ToIndex, len(dst)), task))
}

// Transfer moves id to list `to` at index. A negative index appends.
func Transfer(state model.AppState, id string, to model.ListID, index int) (Result, error) {
	id = strings.TrimSpace(id)
	if !to.Valid() {
		return Result{State: state}, InvalidListError{List: string(to)}
	}
	from, fromIdx, ok := state.Locate(id)
	if !ok {
		return Result{State: state}, NotFoundError{Kind: "task", ID: id}
	}

	if index < 0 {
		index = len(state.List(to))
		if from == to {
			index = len(state.List(to)) - 1
		}
	}
	mv := model.Move{TaskID: id, From: from, To: to, FromIndex: fromIdx, ToIndex: index}
	next := ApplyMove(state, mv)
	task, _, _ := next.Find(id)
	_, nowIdx, _ := next.Locate(id)
	return Result{
		State:   next,
		Task:    task,
		Changed: from != to || nowIdx != fromIdx,
	}, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func insertAt(l model.TaskList, i int, t model.Task) model.TaskList {
	out := make(model.TaskList, 0, len(l)+1)
	out = append(out, l[:i]...)
	out = append(out, t)
	return append(out, l[i:]...)
}
