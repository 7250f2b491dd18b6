package store

import (
	"github.com/google/uuid"
)

// NewTaskID returns a new task id. IDs are UUIDv7: unique, time-ordered and never reused.
func NewTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
