// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tagforge/tagforge/models"
)

// HashtagRepositoryImpl implements HashtagRepository interface
type HashtagRepositoryImpl struct {
	*BaseRepository[models.Hashtag, models.HashtagFilter]
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &HashtagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Hashtag, models.HashtagFilter](db, applyHashtagFilter),
	}
}

func applyHashtagFilter(db *gorm.DB, filter models.HashtagFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Slug != nil {
		db = db.Where("slug = ?", *filter.Slug)
	}
	if filter.MinCount != nil {
		db = db.Where("count >= ?", *filter.MinCount)
	}
	if filter.UsedAfter != nil {
		db = db.Where("last_used >= ?", *filter.UsedAfter)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByName retrieves a hashtag by its exact name
func (r *HashtagRepositoryImpl) ByName(ctx context.Context, name string) (*models.Hashtag, error) {
	return r.byUniqueColumn(ctx, "name", name)
}

// BySlug retrieves a hashtag by its slug
func (r *HashtagRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Hashtag, error) {
	return r.byUniqueColumn(ctx, "slug", slug)
}

func (r *HashtagRepositoryImpl) byUniqueColumn(ctx context.Context, column, value string) (*models.Hashtag, error) {
	db := r.getDB(ctx)

	var hashtag models.Hashtag
	err := db.Where(column+" = ?", value).Last(&hashtag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find hashtag by %s: %w", column, err)
	}

	return &hashtag, nil
}

// ListByUsage retrieves hashtags ordered by descending usage count with pagination
func (r *HashtagRepositoryImpl) ListByUsage(ctx context.Context, limit, offset int) ([]*models.Hashtag, error) {
	db := r.getDB(ctx)

	var hashtags []*models.Hashtag
	err := db.Order("count DESC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&hashtags).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list hashtags by usage: %w", err)
	}

	return hashtags, nil
}

// ListRecentlyUsed retrieves hashtags that have been used at least once,
// most recently used first
func (r *HashtagRepositoryImpl) ListRecentlyUsed(ctx context.Context, limit int) ([]*models.Hashtag, error) {
	db := r.getDB(ctx)

	var hashtags []*models.Hashtag
	err := db.Where("last_used IS NOT NULL").
		Order("last_used DESC").
		Limit(limit).
		Find(&hashtags).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list recently used hashtags: %w", err)
	}

	return hashtags, nil
}
