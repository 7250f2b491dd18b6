package mutate

import (
	"strings"

	"taskboard/internal/model"
)

// Result is returned by every command. State is the resulting state (the input state when
// nothing changed); Task is the affected task, when there is one.
type Result struct {
	State   model.AppState
	Task    model.Task
	Changed bool
}

// AddTask appends a new pending task. Invalid text or an id already on the board is a no-op.
func AddTask(state model.AppState, text, newID string) Result {
	v := ValidateText(text)
	newID = strings.TrimSpace(newID)
	if !v.Valid || newID == "" {
		return Result{State: state}
	}
	if _, _, exists := state.Locate(newID); exists {
		return Result{State: state}
	}
	t := model.Task{ID: newID, Text: v.Trimmed}
	return Result{
		State:   state.WithList(model.ListPending, insertAt(state.Pending, len(state.Pending), t)),
		Task:    t,
		Changed: true,
	}
}

// EditText replaces the text of id. Invalid text leaves the stored text in place.
func EditText(state model.AppState, id, text string) Result {
	v := ValidateText(text)
	if !v.Valid {
		return Result{State: state}
	}
	return updateTask(state, id, func(t *model.Task) bool {
		if t.Text == v.Trimmed {
			return false
		}
		t.Text = v.Trimmed
		return true
	})
}

// EditNotes replaces the notes of id as given; notes are not validated.
func EditNotes(state model.AppState, id, notes string) Result {
	return updateTask(state, id, func(t *model.Task) bool {
		if t.Notes == notes {
			return false
		}
		t.Notes = notes
		return true
	})
}

// DeleteTask removes id from whichever list holds it. Missing ids are a no-op.
func DeleteTask(state model.AppState, id string) Result {
	l, i, ok := state.Locate(strings.TrimSpace(id))
	if !ok {
		return Result{State: state}
	}
	src := state.List(l)
	t := src[i]
	rest := make(model.TaskList, 0, len(src)-1)
	rest = append(rest, src[:i]...)
	rest = append(rest, src[i+1:]...)
	return Result{State: state.WithList(l, rest), Task: t, Changed: true}
}

func updateTask(state model.AppState, id string, apply func(t *model.Task) bool) Result {
	l, i, ok := state.Locate(strings.TrimSpace(id))
	if !ok {
		return Result{State: state}
	}
	src := state.List(l)
	t := src[i]
	if !apply(&t) {
		return Result{State: state, Task: src[i]}
	}
	out := append(model.TaskList{}, src...)
	out[i] = t
	return Result{State: state.WithList(l, out), Task: t, Changed: true}
}

// Require reports a NotFoundError when id is not on the board.
func Require(state model.AppState, id string) error {
	if _, _, ok := state.Locate(strings.TrimSpace(id)); !ok {
		return NotFoundError{Kind: "task", ID: id}
	}
	return nil
}
