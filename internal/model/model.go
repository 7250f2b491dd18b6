package model

import "strings"

// ListID names one of the two board lists.
type ListID string

const (
	ListPending   ListID = "pending"
	ListCompleted ListID = "completed"
)

// Container sentinels are drop targets that stand for a whole list rather than a task.
const (
	PendingContainerID   = "pending-container"
	CompletedContainerID = "completed-container"
)

func (l ListID) Valid() bool {
	return l == ListPending || l == ListCompleted
}

// Label is the column heading used by the TUI and web board.
func (l ListID) Label() string {
	switch l {
	case ListPending:
		return "To Do"
	case ListCompleted:
		return "Done"
	default:
		return string(l)
	}
}

// ContainerID returns the sentinel target id for the list.
func (l ListID) ContainerID() string {
	switch l {
	case ListPending:
		return PendingContainerID
	case ListCompleted:
		return CompletedContainerID
	default:
		return ""
	}
}

// ParseListID accepts the list ids plus the short aliases used on the command line.
func ParseListID(s string) (ListID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "todo", "to-do":
		return ListPending, true
	case "completed", "done":
		return ListCompleted, true
	default:
		return "", false
	}
}

// ContainerList maps a sentinel target id to its list.
func ContainerList(targetID string) (ListID, bool) {
	switch strings.TrimSpace(targetID) {
	case PendingContainerID:
		return ListPending, true
	case CompletedContainerID:
		return ListCompleted, true
	default:
		return "", false
	}
}

type Task struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Notes string `json:"notes,omitempty"`
}

// TaskList is an ordered list of tasks. Order is display and persistence order.
type TaskList []Task

// IndexOf returns the position of id in the list, or -1.
func (l TaskList) IndexOf(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

func (l TaskList) IDs() []string {
	out := make([]string, 0, len(l))
	for _, t := range l {
		out = append(out, t.ID)
	}
	return out
}

// AppState is the unit of persistence: both lists, in order.
type AppState struct {
	Pending   TaskList `json:"pending"`
	Completed TaskList `json:"completed"`
}

func (s AppState) List(id ListID) TaskList {
	if id == ListCompleted {
		return s.Completed
	}
	return s.Pending
}

// WithList returns a copy of s with the given list replaced.
func (s AppState) WithList(id ListID, l TaskList) AppState {
	if id == ListCompleted {
		s.Completed = l
	} else {
		s.Pending = l
	}
	return s
}

// Locate finds the list and index holding id.
func (s AppState) Locate(id string) (ListID, int, bool) {
	if i := s.Pending.IndexOf(id); i >= 0 {
		return ListPending, i, true
	}
	if i := s.Completed.IndexOf(id); i >= 0 {
		return ListCompleted, i, true
	}
	return "", -1, false
}

// Find returns the task with id and the list holding it.
func (s AppState) Find(id string) (Task, ListID, bool) {
	l, i, ok := s.Locate(id)
	if !ok {
		return Task{}, "", false
	}
	return s.List(l)[i], l, true
}

// Len is the total number of tasks across both lists.
func (s AppState) Len() int {
	return len(s.Pending) + len(s.Completed)
}

// Clone deep-copies both lists.
func (s AppState) Clone() AppState {
	return AppState{
		Pending:   append(TaskList{}, s.Pending...),
		Completed: append(TaskList{}, s.Completed...),
	}
}

// SeedState is the board shown on first launch or when persisted data is unusable.
func SeedState() AppState {
	return AppState{
		Pending: TaskList{
			{ID: "1", Text: "Build todo app"},
			{ID: "2", Text: "Buy groceries"},
		},
		Completed: TaskList{
			{ID: "3", Text: "Feed the cats"},
		},
	}
}

// DragEnd is the terminal event reported by a pointer drag sensor.
// TargetID is empty when the pointer was released outside any droppable area.
type DragEnd struct {
	DraggedID     string  `json:"draggedId"`
	TargetID      string  `json:"targetId,omitempty"`
	PointerDeltaX float64 `json:"pointerDeltaX,omitempty"`
}

// Move is a resolved drag: which task leaves which list position for which destination.
type Move struct {
	TaskID    string `json:"taskId"`
	From      ListID `json:"from"`
	To        ListID `json:"to"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

func (m Move) SameList() bool { return m.From == m.To }
