package composers

import "encoding/json"

// CreateComposerRequest is the payload for POST /composers. The owner is
// never taken from the body; LinkToSelf links the new profile to the
// authenticated principal.
type CreateComposerRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	Biography        *string         `json:"biography,omitempty"`
	Website          *string         `json:"website,omitempty" validate:"omitempty,url,max=300"`
	SocialMediaLinks json.RawMessage `json:"social_media_links,omitempty"`
	LinkToSelf       bool            `json:"linkToSelf,omitempty"`
}

// UpdateComposerRequest is the payload for PATCH /composers/{id}.
type UpdateComposerRequest struct {
	Name             *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Biography        *string         `json:"biography,omitempty"`
	Website          *string         `json:"website,omitempty" validate:"omitempty,url,max=300"`
	SocialMediaLinks json.RawMessage `json:"social_media_links,omitempty"`
}
