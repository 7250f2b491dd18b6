package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditor hands the notes being edited to $VISUAL/$EDITOR through a temp file.
// The result lands back in the textarea; saving still takes ctrl+s.
func (m *appModel) openExternalEditor() (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "taskboard-notes-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(m.notes.Value()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.editorPath = path
	m.editorBefore = m.notes.Value()

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path := m.editorPath
	before := m.editorBefore
	m.editorPath = ""
	m.editorBefore = ""
	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.setStatus("Editor failed: "+msg.err.Error(), true)
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.setStatus("Editor read failed: "+err.Error(), true)
		return
	}

	after := strings.TrimRight(string(b), "\n")
	m.notes.SetValue(after)
	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		m.setStatus(fmt.Sprintf("No changes from %s", externalEditorName()), false)
		return
	}
	m.setStatus(fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName()), false)
}
