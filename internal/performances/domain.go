// Package performances implements recorded-performance records.
package performances

import "time"

// Performance is a recording of a composition uploaded by a user. The
// uploader owns the record; mutation is owner-or-admin.
type Performance struct {
	ID            int64      `json:"performance_id"`
	CompositionID int64      `json:"composition_id"`
	UserID        *int64     `json:"user_id,omitempty"`
	RecordingDate *time.Time `json:"recording_date,omitempty"`
	Location      *string    `json:"location,omitempty"`
	FileURL       string     `json:"file_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
