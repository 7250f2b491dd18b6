package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane pads or cuts s to exactly width columns and height lines (height 0 keeps
// the line count).
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			ln = truncateText(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncateText cuts s to width cells, marking the cut with an ellipsis.
func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + glyphEllipsis()
}

// wrapText word-wraps plain text to maxW cells. The first line gets firstPrefix, the
// rest contPrefix. Words wider than a line are hard-cut.
func wrapText(s string, maxW int, firstPrefix, contPrefix string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{firstPrefix}
	}
	firstAvail := max(1, maxW-xansi.StringWidth(firstPrefix))
	contAvail := max(1, maxW-xansi.StringWidth(contPrefix))

	lines := make([]string, 0, 2)
	prefix, avail := firstPrefix, firstAvail
	cur, curW := "", 0
	flush := func() {
		lines = append(lines, prefix+cur)
		prefix, avail = contPrefix, contAvail
		cur, curW = "", 0
	}

	for _, w := range strings.Fields(s) {
		ww := xansi.StringWidth(w)
		if cur != "" && curW+1+ww <= avail {
			cur += " " + w
			curW += 1 + ww
			continue
		}
		if cur != "" {
			flush()
		}
		for xansi.StringWidth(w) > avail {
			lines = append(lines, prefix+xansi.Cut(w, 0, avail))
			w = xansi.Cut(w, avail, xansi.StringWidth(w))
			prefix, avail = contPrefix, contAvail
		}
		cur, curW = w, xansi.StringWidth(w)
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, prefix+cur)
	}
	return lines
}
