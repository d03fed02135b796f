// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tagforge/tagforge/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// HashtagRepository defines operations for hashtags
type HashtagRepository interface {
	Repository[models.Hashtag, models.HashtagFilter]
	ByName(ctx context.Context, name string) (*models.Hashtag, error)
	BySlug(ctx context.Context, slug string) (*models.Hashtag, error)
	ListByUsage(ctx context.Context, limit, offset int) ([]*models.Hashtag, error)
	ListRecentlyUsed(ctx context.Context, limit int) ([]*models.Hashtag, error)
}

// TaggedItemRepository defines operations for plain (uncounted) associations
type TaggedItemRepository interface {
	Repository[models.TaggedItem, models.TaggedItemFilter]
	ByObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]*models.TaggedItem, error)
	ByObjectAndTag(ctx context.Context, contentType string, objectID, hashtagID uuid.UUID) (*models.TaggedItem, error)
	DeleteByObject(ctx context.Context, contentType string, objectID uuid.UUID) (int64, error)
}

// HashtaggedItemRepository defines operations for usage-counted associations
type HashtaggedItemRepository interface {
	Repository[models.HashtaggedItem, models.TaggedItemFilter]
	ByObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]*models.HashtaggedItem, error)
	ByObjectAndTag(ctx context.Context, contentType string, objectID, hashtagID uuid.UUID) (*models.HashtaggedItem, error)
	LatestForTag(ctx context.Context, hashtagID uuid.UUID) (*models.HashtaggedItem, error)
	DeleteByObject(ctx context.Context, contentType string, objectID uuid.UUID) (int64, error)
}
