// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tagforge/tagforge/models"
)

// HashtaggedItemRepositoryImpl implements HashtaggedItemRepository interface
type HashtaggedItemRepositoryImpl struct {
	*BaseRepository[models.HashtaggedItem, models.TaggedItemFilter]
}

// NewHashtaggedItemRepository creates a new usage-counted association repository
func NewHashtaggedItemRepository(db *gorm.DB) HashtaggedItemRepository {
	return &HashtaggedItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.HashtaggedItem, models.TaggedItemFilter](db, applyTaggedItemFilter),
	}
}

// ByObject retrieves all counted associations attached to a single tagged object
func (r *HashtaggedItemRepositoryImpl) ByObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]*models.HashtaggedItem, error) {
	db := r.getDB(ctx)

	var items []*models.HashtaggedItem
	err := db.Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("created_at ASC").
		Find(&items).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list counted associations for object: %w", err)
	}

	return items, nil
}

// ByObjectAndTag retrieves the counted association between one object and one hashtag, if any
func (r *HashtaggedItemRepositoryImpl) ByObjectAndTag(ctx context.Context, contentType string, objectID, hashtagID uuid.UUID) (*models.HashtaggedItem, error) {
	db := r.getDB(ctx)

	var item models.HashtaggedItem
	err := db.Where("content_type = ? AND object_id = ? AND hashtag_id = ?", contentType, objectID, hashtagID).
		Last(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find counted association: %w", err)
	}

	return &item, nil
}

// LatestForTag retrieves the most recent counted association for a hashtag,
// or nil when the hashtag has no remaining uses
func (r *HashtaggedItemRepositoryImpl) LatestForTag(ctx context.Context, hashtagID uuid.UUID) (*models.HashtaggedItem, error) {
	db := r.getDB(ctx)

	var item models.HashtaggedItem
	err := db.Where("hashtag_id = ?", hashtagID).
		Order("created_at DESC").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest association for hashtag: %w", err)
	}

	return &item, nil
}

// DeleteByObject removes every counted association attached to an object and
// returns how many were removed. Rows are loaded and deleted individually so
// the per-row lifecycle hooks settle the hashtag counters for each one.
func (r *HashtaggedItemRepositoryImpl) DeleteByObject(ctx context.Context, contentType string, objectID uuid.UUID) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	var items []*models.HashtaggedItem
	err = db.Where("content_type = ? AND object_id = ?", contentType, objectID).
		Find(&items).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list counted associations for object: %w", err)
	}

	var deleted int64
	for _, item := range items {
		if err = db.Delete(item).Error; err != nil {
			err = fmt.Errorf("failed to delete counted association: %w", err)
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}
