// Package tui is the interactive terminal board.
package tui

import (
	"io"
	"log/slog"
	"strings"

	"taskboard/internal/board"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// Glyphs is "unicode" (default) or "ascii".
	Glyphs string
	Logger *slog.Logger
}

func Run(b *board.Board, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newModel(b, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		setGlyphs(glyphSetUnicode)
	}
}
