package model

// Task is one unit of work extracted from an assistant reply.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hours       int    `json:"hours"`
}

// Estimate holds pre-formatted display strings derived from total hours.
type Estimate struct {
	Standard  string `json:"standard"`
	FastTrack string `json:"fast_track"`
}

// ProjectResult is the structured outcome of a scoping conversation.
// A later extraction replaces it wholesale; there is no incremental merge.
type ProjectResult struct {
	Scope      string   `json:"scope"`
	Tasks      []Task   `json:"tasks"`
	TotalHours int      `json:"total_hours"`
	Estimate   Estimate `json:"estimate"`
}
