package tui

import (
	"sync"
)

// Terminal apps can't change the user's font, so the board picks between Unicode and
// ASCII glyphs for card markers and separators.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

// glyphNotes marks cards that carry notes.
func glyphNotes() string {
	if glyphs() == glyphSetASCII {
		return "+"
	}
	return "✎"
}

func glyphRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphDrag() string {
	if glyphs() == glyphSetASCII {
		return "=>"
	}
	return "⇢"
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "…"
}
