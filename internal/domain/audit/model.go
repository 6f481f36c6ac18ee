package audit

import "time"

const (
	StatusFailed   = "failed"
	StatusPanicked = "panicked"
)

// Entry records one abandoned unit of work.
type Entry struct {
	RunID      string
	Method     string
	Input      []byte
	Message    string
	StackTrace string
	Status     string
	CreatedAt  time.Time
}
