package performances

import "time"

// CreatePerformanceRequest is the payload for POST /performances. The owner
// is always the authenticated principal, never a body field.
type CreatePerformanceRequest struct {
	CompositionID int64      `json:"compositionId" validate:"required,gt=0"`
	RecordingDate *time.Time `json:"recording_date,omitempty"`
	Location      *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	FileURL       string     `json:"file_url" validate:"required,url,max=500"`
}

// UpdatePerformanceRequest is the payload for PATCH /performances/{id}.
type UpdatePerformanceRequest struct {
	RecordingDate *time.Time `json:"recording_date,omitempty"`
	Location      *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	FileURL       *string    `json:"file_url,omitempty" validate:"omitempty,url,max=500"`
}

// ListPerformancesRequest mirrors the GET /performances query parameters.
type ListPerformancesRequest struct {
	CompositionID *int64 `validate:"omitempty,gt=0"`
	UserID        *int64 `validate:"omitempty,gt=0"`
}
