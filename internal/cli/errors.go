package cli

import (
	"fmt"

	"taskboard/internal/mutate"
)

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}

type invalidTextError struct {
	text string
}

func (e invalidTextError) Error() string {
	return fmt.Sprintf("invalid task text %q: must be %d-%d characters after trimming", e.text, mutate.MinTextLen, mutate.MaxTextLen)
}

func errInvalidText(text string) error {
	return invalidTextError{text: text}
}
