// Package interactions implements ratings and comments users leave on
// catalog records.
package interactions

import "time"

// Interaction is a rating or comment attached to a target record. The
// author owns it; mutation is owner-or-admin.
type Interaction struct {
	ID              int64     `json:"interaction_id"`
	UserID          *int64    `json:"user_id,omitempty"`
	TargetID        int64     `json:"target_id"`
	TargetType      string    `json:"target_type"`
	InteractionType string    `json:"interaction_type"`
	Content         *string   `json:"content,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
