package posts

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published document. The owner is set from the verified
// identity at creation and never reassigned.
type Post struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Tags       []string  `json:"tags,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	ViewsCount int64     `json:"viewsCount"`
	OwnerID    int64     `json:"ownerId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateRequest is the rule-set for POST /posts.
type CreateRequest struct {
	Title    string   `json:"title" validate:"required,min=3"`
	Body     string   `json:"body" validate:"required,min=3"`
	Tags     []string `json:"tags" validate:"omitempty,dive,min=1"`
	ImageURL string   `json:"imageUrl" validate:"omitempty"`
}

// PatchRequest is the rule-set for PATCH /posts/{id}. Absent fields keep
// their stored values.
type PatchRequest struct {
	Title    *string   `json:"title" validate:"omitempty,min=3"`
	Body     *string   `json:"body" validate:"omitempty,min=3"`
	Tags     *[]string `json:"tags" validate:"omitempty,dive,min=1"`
	ImageURL *string   `json:"imageUrl" validate:"omitempty"`
}
