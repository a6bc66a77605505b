package utility

import (
	"github.com/google/uuid"
)

// RunID identifies one analysis run in logs. IDs are UUIDv7, so they sort by start time.
type RunID = uuid.UUID

func NewRunID() RunID {
	return uuid.Must(uuid.NewV7())
}
