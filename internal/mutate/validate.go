package mutate

import (
	"strings"
	"unicode/utf8"
)

const (
	MinTextLen = 3
	MaxTextLen = 100
)

type TextResult struct {
	Valid   bool
	Trimmed string
}

// ValidateText trims the candidate and checks its length (in characters) against
// [MinTextLen, MaxTextLen]. The same rule applies to creating and to editing a task.
func ValidateText(candidate string) TextResult {
	trimmed := strings.TrimSpace(candidate)
	n := utf8.RuneCountInString(trimmed)
	return TextResult{
		Valid:   n >= MinTextLen && n <= MaxTextLen,
		Trimmed: trimmed,
	}
}
