package repository

import "time"

// Fetch outcomes stored in fetch_log.outcome.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// FetchLogEntry represents one user fetch and how it ended.
type FetchLogEntry struct {
	ID        string
	UserID    uint32
	Outcome   string
	Name      *string
	Error     *string
	CreatedAt time.Time
}
