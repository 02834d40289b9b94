// Package compositions implements the composition catalog surface.
package compositions

import (
	"encoding/json"
	"time"
)

// Composition is a catalog entry. The natural key for duplicate detection
// is (title, composer_id, year_of_composition).
type Composition struct {
	ID              int64           `json:"composition_id"`
	ComposerID      int64           `json:"composer_id"`
	Title           string          `json:"title"`
	Year            *int            `json:"year_of_composition,omitempty"`
	Description     *string         `json:"description,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
	Status          string          `json:"status"`
	Instrumentation json.RawMessage `json:"instrumentation,omitempty"`
	ExternalAPIName *string         `json:"external_api_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
