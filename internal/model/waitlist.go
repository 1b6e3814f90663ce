package model

import "time"

// WaitlistEntry is a marketing-site signup, keyed by email.
type WaitlistEntry struct {
	ID              int64
	Email           string
	Source          string
	InterestArea    string
	AcceptMarketing bool
	CreatedAt       time.Time
}

// BuildRequest records a concluded scoping conversation together with the
// visitor's contact email.
type BuildRequest struct {
	ID             int64
	ConversationID int64
	Email          string
	Scope          string
	Tasks          []Task
	TotalHours     int
	Estimate       Estimate
	CreatedAt      time.Time
}
