package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type InvalidListError struct {
	List string
}

func (e InvalidListError) Error() string {
	return fmt.Sprintf("unknown list: %q (expected pending|completed)", e.List)
}
