// Package composers implements composer profiles and their user linkage.
//
// A composer row links to at most one user account. Unlinking orphans the
// row (user_id goes NULL) rather than deleting it: catalog data outlives
// account linkage.
package composers

import (
	"encoding/json"
	"time"
)

// Composer is a composer profile in the catalog.
type Composer struct {
	ID               int64           `json:"composer_id"`
	Name             string          `json:"name"`
	Biography        *string         `json:"biography,omitempty"`
	Website          *string         `json:"website,omitempty"`
	SocialMediaLinks json.RawMessage `json:"social_media_links,omitempty"`
	UserID           *int64          `json:"user_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
