package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tagReference describes one association table holding rows that point at a
// hashtag. The delete hooks walk this list to decide whether a tag is still
// referenced anywhere, so every association model must appear here. Counted
// relations additionally maintain Count/LastUsed.
type tagReference struct {
	model   any
	column  string
	counted bool
}

var tagReferences = []tagReference{
	{model: &TaggedItem{}, column: "hashtag_id"},
	{model: &HashtaggedItem{}, column: "hashtag_id", counted: true},
}

// AfterCreate folds the new association into the hashtag's denormalized
// counters. It runs on the inserting transaction after the row is visible
// to reads on that transaction, so the counters and the association table
// stay consistent at commit time.
func (i *HashtaggedItem) AfterCreate(tx *gorm.DB) error {
	err := tx.Model(&Hashtag{}).
		Where("id = ?", i.HashtagID).
		Updates(map[string]any{
			"count": gorm.Expr("count + 1"),
			"last_used": gorm.Expr(
				"CASE WHEN last_used IS NULL OR last_used < ? THEN ? ELSE last_used END",
				i.CreatedAt, i.CreatedAt,
			),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update hashtag counters: %w", err)
	}
	return nil
}

// AfterDelete runs the unused-tag cleanup for plain associations. Plain
// rows never contributed to the counters, so nothing is decremented.
func (i *TaggedItem) AfterDelete(tx *gorm.DB) error {
	return settleHashtagAfterDelete(tx, i.HashtagID, false)
}

// AfterDelete re-establishes the hashtag invariants after a counted
// association is removed.
func (i *HashtaggedItem) AfterDelete(tx *gorm.DB) error {
	return settleHashtagAfterDelete(tx, i.HashtagID, true)
}

// settleHashtagAfterDelete observes the association tables after one row has
// been removed. When nothing references the tag any more and the auto-remove
// policy is on, the tag itself is deleted. Otherwise, for counted
// associations, last_used is recomputed from the surviving rows and the
// counter decremented. The scan sees the post-deletion state because the
// hooks run on the deleting transaction.
func settleHashtagAfterDelete(tx *gorm.DB, tagID uuid.UUID, counted bool) error {
	tagIsUsed := false
	for _, ref := range tagReferences {
		var n int64
		if err := tx.Model(ref.model).Where(ref.column+" = ?", tagID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to scan tag references: %w", err)
		}
		if n > 0 {
			tagIsUsed = true
			break
		}
	}

	if !tagIsUsed && AutoRemoveUnusedTags() {
		if err := tx.Where("id = ?", tagID).Delete(&Hashtag{}).Error; err != nil {
			return fmt.Errorf("failed to remove unused hashtag: %w", err)
		}
		return nil
	}

	if !counted {
		return nil
	}

	var lastUsed *time.Time
	var latest HashtaggedItem
	err := tx.Where("hashtag_id = ?", tagID).Order("created_at DESC").First(&latest).Error
	switch {
	case err == nil:
		createdAt := latest.CreatedAt
		lastUsed = &createdAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No surviving counted associations.
	default:
		return fmt.Errorf("failed to find latest hashtagged item: %w", err)
	}

	err = tx.Model(&Hashtag{}).
		Where("id = ?", tagID).
		Updates(map[string]any{
			"count":     gorm.Expr("count - 1"),
			"last_used": lastUsed,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update hashtag counters: %w", err)
	}
	return nil
}
