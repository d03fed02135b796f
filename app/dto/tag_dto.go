package dto

import (
	"time"

	"github.com/google/uuid"
)

// HashtagDTO is the full wire representation of a hashtag
type HashtagDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Count     int64      `json:"count"`
	LastUsed  *time.Time `json:"last_used"`
	IconPath  *string    `json:"icon_path,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateHashtagRequest creates a hashtag explicitly, ahead of any tagging
type CreateHashtagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" example:"golang"`
}

// UpdateHashtagRequest replaces the mutable fields of a hashtag
type UpdateHashtagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" example:"golang"`
}

// PatchHashtagRequest updates only the provided fields of a hashtag
type PatchHashtagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" example:"golang"`
}

// ListHashtagsRequest pages through hashtags ordered by usage
type ListHashtagsRequest struct {
	Page     int `json:"page" query:"page" validate:"omitempty,min=1" example:"1"`
	PageSize int `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100" example:"20"`
}

// ListHashtagsResponse is the paged hashtag listing
type ListHashtagsResponse struct {
	Message    string       `json:"message"`
	Hashtags   []HashtagDTO `json:"hashtags"`
	Pagination Pagination   `json:"pagination"`
}

// TrendingHashtagsResponse lists the most recently used hashtags
type TrendingHashtagsResponse struct {
	Message  string       `json:"message"`
	Hashtags []HashtagDTO `json:"hashtags"`
	Cached   bool         `json:"cached"`
}

// TagObjectRequest attaches a hashtag to an arbitrary object. Counted
// associations maintain the hashtag's usage count and last-used timestamp;
// plain ones do not.
type TagObjectRequest struct {
	ContentType string    `json:"content_type" validate:"required,min=1,max=100" example:"article"`
	ObjectID    uuid.UUID `json:"object_id" validate:"required" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Tag         string    `json:"tag" validate:"required,min=1,max=100" example:"golang"`
	Counted     *bool     `json:"counted,omitempty" example:"true"`
}

// TagObjectResponse reports the created association and the hashtag state
// after the counters settled
type TagObjectResponse struct {
	Message string     `json:"message"`
	Hashtag HashtagDTO `json:"hashtag"`
}

// UntagObjectRequest detaches a hashtag from an object
type UntagObjectRequest struct {
	ContentType string    `json:"content_type" validate:"required,min=1,max=100" example:"article"`
	ObjectID    uuid.UUID `json:"object_id" validate:"required" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Tag         string    `json:"tag" validate:"required,min=1,max=100" example:"golang"`
}

// UntagObjectResponse reports whether the hashtag survived the removal
type UntagObjectResponse struct {
	Message        string      `json:"message"`
	HashtagRemoved bool        `json:"hashtag_removed"`
	Hashtag        *HashtagDTO `json:"hashtag,omitempty"`
}

// ObjectTagsResponse lists the hashtags attached to one object
type ObjectTagsResponse struct {
	Message  string       `json:"message"`
	Hashtags []HashtagDTO `json:"hashtags"`
}

// UploadIconResponse reports the stored icon path after validation
type UploadIconResponse struct {
	Message  string `json:"message"`
	IconPath string `json:"icon_path"`
}
