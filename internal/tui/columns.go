package tui

import (
	"fmt"
	"strings"

	"taskboard/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const (
	columnGap    = 2
	minColumnW   = 16
	cardPadding  = 1
	headerHeight = 2 // heading + blank line
)

var boardLists = [2]model.ListID{model.ListPending, model.ListCompleted}

// selection tracks the focused card. ID wins over Idx when the task still exists, so focus
// follows a task across moves.
type selection struct {
	Col int
	Idx int
	ID  string
}

// clampSelection resolves sel against st: by id first, then by bounded position.
func clampSelection(st model.AppState, sel selection) selection {
	if l, i, ok := st.Locate(sel.ID); ok {
		sel.Col = colIndex(l)
		sel.Idx = i
		return sel
	}
	sel.ID = ""
	sel.Col = min(max(sel.Col, 0), len(boardLists)-1)
	tasks := st.List(boardLists[sel.Col])
	if len(tasks) == 0 {
		sel.Idx = -1
		return sel
	}
	sel.Idx = min(max(sel.Idx, 0), len(tasks)-1)
	sel.ID = tasks[sel.Idx].ID
	return sel
}

func colIndex(l model.ListID) int {
	if l == model.ListCompleted {
		return 1
	}
	return 0
}

// cardBox is the screen area of one rendered card, in board coordinates.
type cardBox struct {
	Task  model.Task
	Index int
	Lines []string
	Top   int // first line
	Bot   int // last line (inclusive)
}

type columnBox struct {
	List  model.ListID
	X     int
	Cards []cardBox
	// Hidden counts cards above the first visible one.
	Hidden int
}

// boardLayout is the geometry shared by rendering and mouse hit-testing. Coordinates are
// relative to the top-left corner of the board area.
type boardLayout struct {
	ColW   int
	Height int
	Cols   [2]columnBox
}

func buildLayout(st model.AppState, sel selection, width, height int) boardLayout {
	colW := max(minColumnW, (width-columnGap)/2)
	lay := boardLayout{ColW: colW, Height: height}
	innerW := colW - 2*cardPadding

	for ci, l := range boardLists {
		col := columnBox{List: l, X: ci * (colW + columnGap)}
		tasks := st.List(l)

		wrapped := make([][]string, len(tasks))
		for i, t := range tasks {
			marker := glyphBullet() + " "
			if strings.TrimSpace(t.Notes) != "" {
				marker = glyphNotes() + " "
			}
			wrapped[i] = wrapText(t.Text, innerW, marker, "  ")
		}

		// Scroll the focused column so the selected card is fully visible.
		first := 0
		if ci == sel.Col && sel.Idx >= 0 && sel.Idx < len(tasks) {
			for first < sel.Idx && cardsEnd(wrapped, first, sel.Idx) > height {
				first++
			}
		}
		col.Hidden = first

		y := headerHeight
		for i := first; i < len(tasks); i++ {
			if y >= height {
				break
			}
			n := len(wrapped[i])
			col.Cards = append(col.Cards, cardBox{Task: tasks[i], Index: i, Lines: wrapped[i], Top: y, Bot: y + n - 1})
			y += n + 1 // separator
		}
		lay.Cols[ci] = col
	}
	return lay
}

// cardsEnd is the y just past card `last` when rendering starts at card `first`.
func cardsEnd(wrapped [][]string, first, last int) int {
	y := headerHeight
	for i := first; i <= last; i++ {
		y += len(wrapped[i])
		if i < last {
			y++
		}
	}
	return y
}

// hitKind classifies what lies under a board coordinate.
type hitKind int

const (
	hitNone hitKind = iota
	hitCard
	hitColumn
)

type hit struct {
	Kind hitKind
	List model.ListID
	Task model.Task
}

// hitTest maps a board coordinate to a card, a column body (the list's drop container) or
// nothing.
func (lay boardLayout) hitTest(x, y int) hit {
	if y < 0 || y >= lay.Height {
		return hit{}
	}
	for _, col := range lay.Cols {
		if x < col.X || x >= col.X+lay.ColW {
			continue
		}
		for _, c := range col.Cards {
			if y >= c.Top && y <= c.Bot {
				return hit{Kind: hitCard, List: col.List, Task: c.Task}
			}
		}
		return hit{Kind: hitColumn, List: col.List}
	}
	return hit{}
}

// targetID is the drop target id a hit reports to the resolver.
func (h hit) targetID() string {
	switch h.Kind {
	case hitCard:
		return h.Task.ID
	case hitColumn:
		return h.List.ContainerID()
	default:
		return ""
	}
}

// renderState carries the interaction state that changes how cards are drawn.
type renderState struct {
	Sel      selection
	Focused  bool // selection highlight is shown
	Dragging string
	Over     hit
}

func renderBoard(st model.AppState, lay boardLayout, rs renderState) string {
	rendered := make([]string, 0, len(lay.Cols))
	for ci, col := range lay.Cols {
		rendered = append(rendered, renderColumn(st, col, ci, lay, rs))
	}
	gap := strings.Repeat(" ", columnGap)
	out := lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], gap, rendered[1])
	return normalizePane(out, 2*lay.ColW+columnGap, lay.Height)
}

func renderColumn(st model.AppState, col columnBox, ci int, lay boardLayout, rs renderState) string {
	head := fmt.Sprintf("%s (%d)", col.List.Label(), len(st.List(col.List)))
	hs := styleHeader
	switch {
	case rs.Dragging != "" && rs.Over.List == col.List && rs.Over.Kind != hitNone:
		hs = styleHeaderDrop
	case rs.Focused && rs.Sel.Col == ci:
		hs = styleHeaderActive
	}
	lines := make([]string, 0, lay.Height)
	lines = append(lines, hs.Width(lay.ColW).Render(truncateText(head, lay.ColW-2)))
	if col.Hidden > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("  %d more above", col.Hidden)))
	} else {
		lines = append(lines, "")
	}

	if len(col.Cards) == 0 {
		lines = append(lines, styleMuted().Render("  (empty)"))
		return normalizePane(strings.Join(lines, "\n"), lay.ColW, lay.Height)
	}

	cardStyle := lipgloss.NewStyle().Width(lay.ColW).Padding(0, cardPadding)
	for i, c := range col.Cards {
		cs := cardStyle
		switch {
		case rs.Dragging == c.Task.ID:
			cs = faintIfDark(cs.Foreground(colorMuted)).Italic(true)
		case rs.Dragging != "" && rs.Over.Kind == hitCard && rs.Over.Task.ID == c.Task.ID:
			cs = cs.Inherit(styleCardDrop)
		case rs.Focused && rs.Sel.ID == c.Task.ID:
			cs = cs.Inherit(styleCardSelected)
		case col.List == model.ListCompleted:
			cs = cs.Inherit(styleCardDone)
		}
		lines = append(lines, strings.Split(cs.Render(strings.Join(c.Lines, "\n")), "\n")...)
		if i < len(col.Cards)-1 {
			sep := " " + strings.Repeat(glyphRule(), max(0, lay.ColW-2)) + " "
			lines = append(lines, styleMuted().Render(sep))
		}
	}
	return normalizePane(strings.Join(lines, "\n"), lay.ColW, lay.Height)
}
