package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/mutate"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeNotes
)

const (
	boardTop     = 2 // title + blank line
	footerHeight = 2
	notesHeight  = 8
	previewMax   = 10
)

type dragState struct {
	ID     string
	StartX int
	Over   hit
}

type appModel struct {
	ctx   context.Context
	board *board.Board
	log   *slog.Logger

	width  int
	height int

	mode        mode
	sel         selection
	drag        *dragState
	showPreview bool

	input     textinput.Model
	notes     textarea.Model
	editingID string

	editorPath   string
	editorBefore string

	status    string
	statusErr bool
}

func newModel(b *board.Board, logger *slog.Logger) appModel {
	if logger == nil {
		logger = discardLogger()
	}
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "What needs doing?"
	in.CharLimit = 2 * mutate.MaxTextLen

	ta := textarea.New()
	ta.Placeholder = "Notes (markdown)"
	ta.ShowLineNumbers = false

	m := appModel{
		ctx:    context.Background(),
		board:  b,
		log:    logger,
		width:  80,
		height: 24,
		input:  in,
		notes:  ta,
	}
	m.sel = clampSelection(b.State(), selection{})
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) boardSize() (int, int) {
	h := m.height - boardTop - footerHeight - m.panelHeight()
	return m.width, max(3, h)
}

// panelHeight is the height of the notes editor or preview pane below the board.
func (m appModel) panelHeight() int {
	switch {
	case m.mode == modeNotes:
		return notesHeight + 1
	case m.showPreview:
		return min(previewMax, max(3, m.height/3))
	default:
		return 0
	}
}

func (m appModel) layout() boardLayout {
	w, h := m.boardSize()
	return buildLayout(m.board.State(), m.sel, w, h)
}

func (m appModel) selectedTask() (model.Task, bool) {
	if m.sel.ID == "" {
		return model.Task{}, false
	}
	t, _, ok := m.board.State().Find(m.sel.ID)
	return t, ok
}

func (m *appModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *appModel) reselect() {
	m.sel = clampSelection(m.board.State(), m.sel)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.width-4)
		m.notes.SetWidth(max(10, m.width))
		m.notes.SetHeight(notesHeight)
		return m, nil

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.MouseMsg:
		if m.mode != modeBrowse {
			return m, nil
		}
		return m.updateMouse(msg), nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeNotes:
			return m.updateNotes(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.board.State()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.drag = nil
		m.setStatus("", false)

	case "left", "h":
		m.sel = clampSelection(st, selection{Col: 0, Idx: m.sel.Idx})
	case "right", "l":
		m.sel = clampSelection(st, selection{Col: 1, Idx: m.sel.Idx})
	case "up", "k":
		m.sel = clampSelection(st, selection{Col: m.sel.Col, Idx: m.sel.Idx - 1})
	case "down", "j":
		m.sel = clampSelection(st, selection{Col: m.sel.Col, Idx: m.sel.Idx + 1})

	case "H", "L":
		to := model.ListPending
		if msg.String() == "L" {
			to = model.ListCompleted
		}
		m.moveSelected(to, -1)
	case "K", "J":
		if m.sel.Idx < 0 {
			break
		}
		idx := m.sel.Idx - 1
		if msg.String() == "J" {
			idx = m.sel.Idx + 1
		}
		if idx >= 0 {
			m.moveSelected(boardLists[m.sel.Col], idx)
		}

	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.setStatus("", false)
		return m, m.input.Focus()

	case "e", "enter":
		t, ok := m.selectedTask()
		if !ok {
			break
		}
		m.mode = modeEdit
		m.editingID = t.ID
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		m.setStatus("", false)
		return m, m.input.Focus()

	case "n":
		t, ok := m.selectedTask()
		if !ok {
			break
		}
		m.mode = modeNotes
		m.editingID = t.ID
		m.notes.SetValue(t.Notes)
		m.setStatus("", false)
		return m, m.notes.Focus()

	case "p":
		m.showPreview = !m.showPreview

	case "d", "delete":
		t, ok := m.selectedTask()
		if !ok {
			break
		}
		if _, ok := m.board.Delete(m.ctx, t.ID); ok {
			m.sel.ID = ""
			m.reselect()
			m.setStatus(fmt.Sprintf("Deleted %q", t.Text), false)
		}

	case "y":
		t, ok := m.selectedTask()
		if !ok {
			break
		}
		if err := copyToClipboard(t.Text); err != nil {
			m.log.Warn("tui: clipboard copy failed", "err", err)
			m.setStatus("Copy failed: "+err.Error(), true)
			break
		}
		m.setStatus("Copied to clipboard", false)
	}
	return m, nil
}

func (m *appModel) moveSelected(to model.ListID, index int) {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	_, changed, err := m.board.Move(m.ctx, t.ID, to, index)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.reselect()
	if changed {
		m.setStatus("Moved to "+to.Label(), false)
	}
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.editingID = ""
		return m, nil

	case tea.KeyEnter:
		text := m.input.Value()
		if !mutate.ValidateText(text).Valid {
			m.setStatus(fmt.Sprintf("Text must be %d-%d characters", mutate.MinTextLen, mutate.MaxTextLen), true)
			return m, nil
		}
		if m.mode == modeAdd {
			if t, ok := m.board.Add(m.ctx, text); ok {
				m.sel = selection{ID: t.ID}
				m.setStatus("Added to "+model.ListPending.Label(), false)
			}
		} else if _, ok := m.board.EditText(m.ctx, m.editingID, text); ok {
			m.setStatus("Saved", false)
		}
		m.reselect()
		m.mode = modeBrowse
		m.input.Blur()
		m.editingID = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.notes.Blur()
		m.editingID = ""
		return m, nil
	case "ctrl+s":
		if _, ok := m.board.EditNotes(m.ctx, m.editingID, m.notes.Value()); ok {
			m.setStatus("Notes saved", false)
		}
		m.mode = modeBrowse
		m.notes.Blur()
		m.editingID = ""
		m.reselect()
		return m, nil
	case "ctrl+g":
		cmd, err := m.openExternalEditor()
		if err != nil {
			m.setStatus("Editor failed: "+err.Error(), true)
			return m, nil
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) appModel {
	lay := m.layout()
	h := lay.hitTest(msg.X, msg.Y-boardTop)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.sel = clampSelection(m.board.State(), selection{Col: m.sel.Col, Idx: m.sel.Idx - 1})
		case tea.MouseButtonWheelDown:
			m.sel = clampSelection(m.board.State(), selection{Col: m.sel.Col, Idx: m.sel.Idx + 1})
		case tea.MouseButtonLeft:
			switch h.Kind {
			case hitCard:
				m.sel = selection{ID: h.Task.ID}
				m.reselect()
				m.drag = &dragState{ID: h.Task.ID, StartX: msg.X, Over: h}
			case hitColumn:
				m.sel = clampSelection(m.board.State(), selection{Col: colIndex(h.List), Idx: m.sel.Idx})
			}
		}

	case tea.MouseActionMotion:
		if m.drag != nil {
			d := *m.drag
			d.Over = h
			m.drag = &d
		}

	case tea.MouseActionRelease:
		// Release events don't reliably report the button, so any release ends a drag.
		if m.drag == nil {
			return m
		}
		ev := model.DragEnd{DraggedID: m.drag.ID, TargetID: h.targetID(), PointerDeltaX: float64(msg.X - m.drag.StartX)}
		m.drag = nil
		mv, ok := m.board.DragEnd(m.ctx, ev)
		m.log.Debug("tui: drag end", "dragged", ev.DraggedID, "target", ev.TargetID, "applied", ok)
		if ok {
			m.sel = selection{ID: mv.TaskID}
			m.reselect()
			m.setStatus("Moved to "+mv.To.Label(), false)
		}
	}
	return m
}

func (m appModel) View() string {
	st := m.board.State()
	w, h := m.boardSize()
	lay := buildLayout(st, m.sel, w, h)

	rs := renderState{Sel: m.sel, Focused: m.mode == modeBrowse}
	if m.drag != nil {
		rs.Dragging = m.drag.ID
		rs.Over = m.drag.Over
	}

	title := styleTitle.Render("Task Board") + "  " + styleMuted().Render(fmt.Sprintf("%d tasks", st.Len()))
	if m.drag != nil {
		title += "  " + styleKey.Render(glyphDrag()+" drop on a card or column")
	}

	parts := []string{normalizePane(title, m.width, 1), "", renderBoard(st, lay, rs)}
	if p := m.panelHeight(); p > 0 {
		parts = append(parts, m.viewPanel(p))
	}
	parts = append(parts, m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m appModel) viewPanel(height int) string {
	rule := styleMuted().Render(strings.Repeat(glyphRule(), max(0, m.width)))
	if m.mode == modeNotes {
		return rule + "\n" + normalizePane(m.notes.View(), m.width, height-1)
	}
	body := styleMuted().Render("(no notes)")
	if t, ok := m.selectedTask(); ok && strings.TrimSpace(t.Notes) != "" {
		body = renderMarkdown(t.Notes, m.width)
	}
	return rule + "\n" + normalizePane(body, m.width, height-1)
}

func (m appModel) viewFooter() string {
	var line1, line2 string
	switch m.mode {
	case modeAdd, modeEdit:
		label := "Add"
		verb := "add"
		if m.mode == modeEdit {
			label, verb = "Edit", "save"
		}
		line1 = styleTitle.Render(label+" ") + m.input.View()
		line2 = submitHint(verb, mutate.ValidateText(m.input.Value()).Valid)
	case modeNotes:
		line1 = styleKey.Render("ctrl+s") + " save  " + styleKey.Render("ctrl+g") + " " + externalEditorName() + "  " + styleKey.Render("esc") + " cancel"
	default:
		line1 = helpLine()
	}
	if m.status != "" {
		if m.statusErr {
			line2 = styleStatusError.Render(m.status)
		} else if line2 == "" {
			line2 = styleMuted().Render(m.status)
		}
	}
	return normalizePane(line1+"\n"+line2, m.width, footerHeight)
}

// submitHint renders the enter affordance, dimmed while the input is invalid.
func submitHint(verb string, valid bool) string {
	if !valid {
		return styleMuted().Render(fmt.Sprintf("enter %s (%d-%d characters)  esc cancel", verb, mutate.MinTextLen, mutate.MaxTextLen))
	}
	return styleKey.Render("enter") + " " + verb + "  " + styleKey.Render("esc") + " cancel"
}

func helpLine() string {
	keys := []struct{ k, d string }{
		{"a", "add"}, {"e", "edit"}, {"n", "notes"}, {"p", "preview"}, {"d", "delete"},
		{"y", "copy"}, {"H/L", "move"}, {"J/K", "sort"}, {"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, kd := range keys {
		parts = append(parts, styleKey.Render(kd.k)+" "+kd.d)
	}
	return strings.Join(parts, "  ")
}
