// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tagforge/tagforge/models"
)

// ReconcileScheduler periodically realigns the denormalized hashtag counters
// with the association tables. The lifecycle hooks keep the counters correct
// for ORM-driven writes; rows removed by raw SQL or cascading deletes bypass
// the hooks, and this sweep repairs the resulting drift. It also removes
// hashtags that no association references any more when the auto-remove
// policy is on.
type ReconcileScheduler struct {
	db       *gorm.DB
	logger   *log.Logger
	interval time.Duration
}

func NewReconcileScheduler(db *gorm.DB, logger *log.Logger, interval time.Duration) *ReconcileScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &ReconcileScheduler{
		db:       db,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the reconciliation loop. The returned cancel function stops it.
func (s *ReconcileScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *ReconcileScheduler) runOnce(ctx context.Context) {
	fixed, removed, err := s.Reconcile(ctx)
	if err != nil {
		s.logger.Printf("scheduler: hashtag reconciliation failed: %v", err)
		return
	}
	if fixed > 0 || removed > 0 {
		s.logger.Printf("scheduler: reconciled %d hashtag counters, removed %d unused hashtags", fixed, removed)
	}
}

// Reconcile walks every hashtag and rewrites count/last_used from the
// surviving counted associations. Each hashtag is handled in its own
// transaction so one failure does not abort the whole sweep.
func (s *ReconcileScheduler) Reconcile(ctx context.Context) (fixed int, removed int, err error) {
	var tags []models.Hashtag
	if err := s.db.WithContext(ctx).Find(&tags).Error; err != nil {
		return 0, 0, err
	}

	for i := range tags {
		tag := &tags[i]

		select {
		case <-ctx.Done():
			return fixed, removed, ctx.Err()
		default:
		}

		txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var counted int64
			if err := tx.Model(&models.HashtaggedItem{}).Where("hashtag_id = ?", tag.ID).Count(&counted).Error; err != nil {
				return err
			}
			var plain int64
			if err := tx.Model(&models.TaggedItem{}).Where("hashtag_id = ?", tag.ID).Count(&plain).Error; err != nil {
				return err
			}

			if counted == 0 && plain == 0 && models.AutoRemoveUnusedTags() {
				if err := tx.Where("id = ?", tag.ID).Delete(&models.Hashtag{}).Error; err != nil {
					return err
				}
				removed++
				return nil
			}

			var lastUsed *time.Time
			if counted > 0 {
				var latest models.HashtaggedItem
				if err := tx.Where("hashtag_id = ?", tag.ID).Order("created_at DESC").First(&latest).Error; err != nil {
					return err
				}
				lastUsed = &latest.CreatedAt
			}

			if tag.Count == counted && equalTimes(tag.LastUsed, lastUsed) {
				return nil
			}

			err := tx.Model(&models.Hashtag{}).
				Where("id = ?", tag.ID).
				Updates(map[string]any{"count": counted, "last_used": lastUsed}).Error
			if err != nil {
				return err
			}
			fixed++
			return nil
		})
		if txErr != nil {
			s.logger.Printf("scheduler: failed to reconcile hashtag %s: %v", tag.ID, txErr)
		}
	}

	return fixed, removed, nil
}

func equalTimes(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
