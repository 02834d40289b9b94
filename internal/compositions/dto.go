package compositions

import "encoding/json"

// CreateCompositionRequest is the payload for POST /compositions.
type CreateCompositionRequest struct {
	Title           string          `json:"title" validate:"required,max=300"`
	ComposerID      int64           `json:"composerId" validate:"required,gt=0"`
	Year            *int            `json:"year,omitempty" validate:"omitempty,gte=0,lte=2100"`
	Description     *string         `json:"description,omitempty"`
	DurationSeconds *int            `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Status          string          `json:"status,omitempty" validate:"omitempty,max=50"`
	Instrumentation json.RawMessage `json:"instrumentation,omitempty"`
	ExternalAPIName *string         `json:"external_api_name,omitempty" validate:"omitempty,max=100"`
}

// UpdateCompositionRequest is the payload for PATCH /compositions/{id}.
// The composer linkage is fixed at creation time.
type UpdateCompositionRequest struct {
	Title           *string         `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Year            *int            `json:"year,omitempty" validate:"omitempty,gte=0,lte=2100"`
	Description     *string         `json:"description,omitempty"`
	DurationSeconds *int            `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Status          *string         `json:"status,omitempty" validate:"omitempty,max=50"`
	Instrumentation json.RawMessage `json:"instrumentation,omitempty"`
}

// ListCompositionsRequest mirrors the GET /compositions query parameters.
type ListCompositionsRequest struct {
	Year       *int   `validate:"omitempty,gte=0,lte=2100"`
	Status     string `validate:"omitempty,max=50"`
	ComposerID *int64 `validate:"omitempty,gt=0"`
	Limit      int    `validate:"gte=0,lte=500"`
	Offset     int    `validate:"gte=0"`
}
