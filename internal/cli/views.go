package cli

import (
	"fmt"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

type boardView struct {
	Pending   model.TaskList `json:"pending"`
	Completed model.TaskList `json:"completed"`
}

func newBoardView(st model.AppState) boardView {
	v := boardView{Pending: st.Pending, Completed: st.Completed}
	if v.Pending == nil {
		v.Pending = model.TaskList{}
	}
	if v.Completed == nil {
		v.Completed = model.TaskList{}
	}
	return v
}

func (v boardView) Text() string {
	var b strings.Builder
	writeColumn(&b, model.ListPending, v.Pending)
	writeColumn(&b, model.ListCompleted, v.Completed)
	return b.String()
}

func writeColumn(b *strings.Builder, l model.ListID, tasks model.TaskList) {
	fmt.Fprintf(b, "%s (%d)\n", l.Label(), len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(b, "  %s  %s\n", t.ID, t.Text)
	}
}

type taskView struct {
	model.Task
	List  model.ListID `json:"list"`
	Index int          `json:"index"`
}

func newTaskView(st model.AppState, t model.Task) taskView {
	l, i, _ := st.Locate(t.ID)
	return taskView{Task: t, List: l, Index: i}
}

func (v taskView) Text() string {
	s := fmt.Sprintf("%s  %s  [%s]", v.ID, v.Task.Text, v.List.Label())
	if v.Notes != "" {
		s += "\n\n" + v.Notes
	}
	return s
}

type loadMeta struct {
	Backend string         `json:"backend"`
	Key     string         `json:"key"`
	Load    store.LoadInfo `json:"load"`
}
