package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestThemePreference(t *testing.T) {
	tests := []struct {
		theme, colorfgbg string
		dark, ok         bool
	}{
		{"", "", false, false},
		{"light", "15;0", false, true},
		{"dark", "", true, true},
		{"auto", "15;0", true, true},
		{"", "0;default;15", false, true},
		{"", "garbage", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TASKBOARD_TUI_THEME", tt.theme)
		t.Setenv("COLORFGBG", tt.colorfgbg)
		dark, ok := themePreference()
		if dark != tt.dark || ok != tt.ok {
			t.Fatalf("theme=%q COLORFGBG=%q: got (%v,%v) want (%v,%v)", tt.theme, tt.colorfgbg, dark, ok, tt.dark, tt.ok)
		}
	}
}

func TestMarkdownStyle_FollowsTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("TASKBOARD_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("TASKBOARD_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyleConfig_UsesBoardColors(t *testing.T) {
	for _, name := range []string{"dark", "light"} {
		cfg := markdownStyleConfig(name)
		if got, want := *cfg.Link.Color, *mdColor(colorAccent, name); got != want {
			t.Fatalf("%s: link color %q want %q", name, got, want)
		}
		if cfg.Strong.Color != nil {
			t.Fatalf("%s: expected strong to inherit the text color", name)
		}
	}
	if styles.DarkStyleConfig.Link.Color != nil && *styles.DarkStyleConfig.Link.Color == *mdColor(colorAccent, "dark") {
		t.Fatalf("base dark config was mutated")
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("TASKBOARD_TUI_THEME", "dark")

	out := xansi.Strip(renderMarkdown("# Groceries\n\n- oat milk\n- *bread*", 40))
	for _, want := range []string{"Groceries", "oat milk", "bread"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in rendered notes:\n%s", want, out)
		}
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trimmed output, got %q", out)
	}
}
