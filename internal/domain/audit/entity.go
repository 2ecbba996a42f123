package audit

import "time"

// Entry is one audit log event. UserID defaults to "system" until auth is
// added.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	ModelID    string    `json:"model_id,omitempty"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	OldValue   any       `json:"old_value,omitempty"`
	NewValue   any       `json:"new_value,omitempty"`
}
