// Package dnd turns drag-end events into list moves.
package dnd

import (
	"math"
	"strings"

	"taskboard/internal/model"
)

// LegacyDisplacementThreshold is the horizontal pointer travel (in sensor units) past which
// the legacy heuristic moves a task to the other list.
const LegacyDisplacementThreshold = 50

type Options struct {
	// LegacyDisplacement enables the pointer-displacement fallback for front ends that
	// cannot report list container targets. It never applies to container targets.
	LegacyDisplacement bool
}

// Resolve classifies a drag-end event against the current lists.
// It returns ok=false for every no-op: unknown dragged task, missing or unknown target,
// or a drop onto the dragged task itself.
func Resolve(ev model.DragEnd, pending, completed model.TaskList, opts Options) (model.Move, bool) {
	dragged := strings.TrimSpace(ev.DraggedID)
	target := strings.TrimSpace(ev.TargetID)
	if dragged == "" || target == "" {
		return model.Move{}, false
	}

	lists := model.AppState{Pending: pending, Completed: completed}
	from, fromIdx, ok := lists.Locate(dragged)
	if !ok {
		return model.Move{}, false
	}
	if target == dragged {
		return model.Move{}, false
	}

	mv := model.Move{TaskID: dragged, From: from, FromIndex: fromIdx}

	if to, ok := model.ContainerList(target); ok {
		mv.To = to
		if to == from {
			mv.ToIndex = fromIdx
		} else {
			mv.ToIndex = len(lists.List(to))
		}
		return mv, true
	}

	if i := pending.IndexOf(target); i >= 0 {
		mv.To, mv.ToIndex = model.ListPending, i
	} else if i := completed.IndexOf(target); i >= 0 {
		mv.To, mv.ToIndex = model.ListCompleted, i
	} else {
		return model.Move{}, false
	}

	if opts.LegacyDisplacement && math.Abs(ev.PointerDeltaX) > LegacyDisplacementThreshold {
		to := model.ListPending
		if ev.PointerDeltaX > 0 {
			to = model.ListCompleted
		}
		mv.To = to
		if to == from {
			// Pointing back at its own list leaves the task where it is.
			mv.ToIndex = fromIdx
		} else {
			mv.ToIndex = len(lists.List(to))
		}
	}
	return mv, true
}
