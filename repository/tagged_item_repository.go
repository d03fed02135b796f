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

// TaggedItemRepositoryImpl implements TaggedItemRepository interface
type TaggedItemRepositoryImpl struct {
	*BaseRepository[models.TaggedItem, models.TaggedItemFilter]
}

// NewTaggedItemRepository creates a new plain association repository
func NewTaggedItemRepository(db *gorm.DB) TaggedItemRepository {
	return &TaggedItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TaggedItem, models.TaggedItemFilter](db, applyTaggedItemFilter),
	}
}

func applyTaggedItemFilter(db *gorm.DB, filter models.TaggedItemFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.HashtagID != nil {
		db = db.Where("hashtag_id = ?", *filter.HashtagID)
	}
	if filter.ContentType != nil {
		db = db.Where("content_type = ?", *filter.ContentType)
	}
	if filter.ObjectID != nil {
		db = db.Where("object_id = ?", *filter.ObjectID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByObject retrieves all associations attached to a single tagged object
func (r *TaggedItemRepositoryImpl) ByObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]*models.TaggedItem, error) {
	db := r.getDB(ctx)

	var items []*models.TaggedItem
	err := db.Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("created_at ASC").
		Find(&items).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list associations for object: %w", err)
	}

	return items, nil
}

// ByObjectAndTag retrieves the association between one object and one hashtag, if any
func (r *TaggedItemRepositoryImpl) ByObjectAndTag(ctx context.Context, contentType string, objectID, hashtagID uuid.UUID) (*models.TaggedItem, error) {
	db := r.getDB(ctx)

	var item models.TaggedItem
	err := db.Where("content_type = ? AND object_id = ? AND hashtag_id = ?", contentType, objectID, hashtagID).
		Last(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find association: %w", err)
	}

	return &item, nil
}

// DeleteByObject removes every association attached to an object and returns
// how many were removed. Rows are loaded and deleted individually so the
// per-row lifecycle hooks fire for each one.
func (r *TaggedItemRepositoryImpl) DeleteByObject(ctx context.Context, contentType string, objectID uuid.UUID) (int64, error) {
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

	var items []*models.TaggedItem
	err = db.Where("content_type = ? AND object_id = ?", contentType, objectID).
		Find(&items).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list associations for object: %w", err)
	}

	var deleted int64
	for _, item := range items {
		if err = db.Delete(item).Error; err != nil {
			err = fmt.Errorf("failed to delete association: %w", err)
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}
