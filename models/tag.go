package models

import (
	"time"

	"github.com/google/uuid"
)

// Hashtag is a usage-counted tag. Count mirrors the number of surviving
// HashtaggedItem rows referencing it and LastUsed holds the created_at of
// the most recent one; both are maintained incrementally by the hooks in
// signals.go, never recomputed on read.
// Table: hashtags
// Unique by name and by slug; count and last_used are indexed for ordering
type Hashtag struct {
	UUIDModel
	Name      string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug      string     `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Count     int64      `gorm:"not null;default:0;index" json:"count"`
	LastUsed  *time.Time `gorm:"index" json:"last_used"`
	IconPath  *string    `gorm:"size:255" json:"icon_path,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Hashtag) TableName() string { return "hashtags" }

// TaggedItem links an arbitrary object to a hashtag through a generic
// reference (content type label plus object UUID). Plain associations do
// not touch the hashtag counters; their deletion still participates in the
// unused-tag cleanup.
// Table: tagged_items
// Unique by (content_type, object_id, hashtag_id)
type TaggedItem struct {
	UUIDModel
	HashtagID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:,composite:object_tag,priority:3" json:"hashtag_id"`
	Hashtag     *Hashtag  `gorm:"foreignKey:HashtagID;constraint:OnDelete:CASCADE" json:"hashtag,omitempty"`
	ContentType string    `gorm:"size:100;not null;uniqueIndex:,composite:object_tag,priority:1" json:"content_type"`
	ObjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:object_tag,priority:2" json:"object_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TaggedItem) TableName() string { return "tagged_items" }

// HashtaggedItem is the usage-counted association. CreatedAt is set on
// insert and never modified afterwards; it feeds the hashtag's LastUsed.
// Table: hashtagged_items
// Unique by (content_type, object_id, hashtag_id); indexed by (hashtag_id, created_at)
type HashtaggedItem struct {
	UUIDModel
	HashtagID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:object_tag,priority:3;index:,composite:tag_created,priority:1" json:"hashtag_id"`
	Hashtag     *Hashtag  `gorm:"foreignKey:HashtagID;constraint:OnDelete:CASCADE" json:"hashtag,omitempty"`
	ContentType string    `gorm:"size:100;not null;uniqueIndex:,composite:object_tag,priority:1" json:"content_type"`
	ObjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:object_tag,priority:2" json:"object_id"`
	CreatedAt   time.Time `gorm:"not null;<-:create;index:,composite:tag_created,priority:2" json:"created_at"`
}

func (HashtaggedItem) TableName() string { return "hashtagged_items" }

// HashtagFilter represents filter criteria for hashtag queries
type HashtagFilter struct {
	ID            *uuid.UUID
	Name          *string
	Slug          *string
	MinCount      *int64
	UsedAfter     *time.Time
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TaggedItemFilter represents filter criteria for association queries; it is
// shared by the plain and the usage-counted association repositories.
type TaggedItemFilter struct {
	ID            *uuid.UUID
	HashtagID     *uuid.UUID
	ContentType   *string
	ObjectID      *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
