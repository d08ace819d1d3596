package activity

import "time"

// ActivityType names the kind of change that was applied. Values are the
// dispatched action kinds.
type ActivityType string

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	SubjectID    *string      `json:"subject_id,omitempty"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ActivityType *ActivityType
	SubjectID    *string
	Limit        int
	Offset       int
}
