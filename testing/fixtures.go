// Package testing provides test utilities and database setup for testing the tagging system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tagforge/tagforge/models"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestHashtag creates a hashtag with a randomized unique name.
func (tf *TestFixtures) CreateTestHashtag() (*models.Hashtag, error) {
	name := fmt.Sprintf("golang-%06d", rand.Intn(1000000))
	return tf.CreateTestHashtagNamed(name)
}

// CreateTestHashtagNamed creates a hashtag with the given name.
func (tf *TestFixtures) CreateTestHashtagNamed(name string) (*models.Hashtag, error) {
	hashtag := &models.Hashtag{
		Name: name,
		Slug: name,
	}
	if err := tf.DB.DB.Create(hashtag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test hashtag: %w", err)
	}
	return hashtag, nil
}

// CreateTestHashtaggedItem tags a fresh random object with the given hashtag
// at the given creation time.
func (tf *TestFixtures) CreateTestHashtaggedItem(hashtag *models.Hashtag, createdAt time.Time) (*models.HashtaggedItem, error) {
	item := &models.HashtaggedItem{
		HashtagID:   hashtag.ID,
		ContentType: "note",
		ObjectID:    uuid.New(),
		CreatedAt:   createdAt,
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test hashtagged item: %w", err)
	}
	return item, nil
}

// CreateTestTaggedItem creates a plain (uncounted) association for the tag.
func (tf *TestFixtures) CreateTestTaggedItem(hashtag *models.Hashtag) (*models.TaggedItem, error) {
	item := &models.TaggedItem{
		HashtagID:   hashtag.ID,
		ContentType: "bookmark",
		ObjectID:    uuid.New(),
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tagged item: %w", err)
	}
	return item, nil
}
