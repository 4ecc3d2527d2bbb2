package models

import "time"

// Event types published after a successful mutation
const (
	EventUserCreated       = "user.created"
	EventUserDeleted       = "user.deleted"
	EventUserClaimsUpdated = "user.claims_updated"
	EventProfileUpdated    = "profile.updated"
)

// UserEvent is the message body sent to the events exchange
type UserEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	SubjectID  string         `json:"subject_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}
