package interactions

// CreateInteractionRequest is the payload for POST /interactions. The owner
// is always the authenticated principal.
type CreateInteractionRequest struct {
	TargetID        int64   `json:"targetId" validate:"required,gt=0"`
	TargetType      string  `json:"targetType" validate:"required,oneof=composition performance composer"`
	InteractionType string  `json:"interactionType" validate:"required,max=50"`
	Content         *string `json:"content,omitempty" validate:"omitempty,max=5000"`
	Rating          *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// UpdateInteractionRequest is the payload for PATCH /interactions/{id}.
// Targets are immutable; only the content and rating may change.
type UpdateInteractionRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,max=5000"`
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// ListInteractionsRequest mirrors the GET /interactions query parameters.
type ListInteractionsRequest struct {
	TargetID   *int64
	TargetType string
	UserID     *int64
}
