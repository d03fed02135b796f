// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/models"
	testingutil "github.com/tagforge/tagforge/testing"
	"github.com/tagforge/tagforge/utils"
)

func TestUUIDModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		t.Run("AssignsIDOnCreate", func(t *testing.T) {
			hashtag := &models.Hashtag{Name: "go", Slug: "go"}
			require.NoError(t, testDB.DB.Create(hashtag).Error)
			assert.NotEqual(t, uuid.Nil, hashtag.ID)
		})

		t.Run("KeepsPresetID", func(t *testing.T) {
			preset := uuid.New()
			hashtag := &models.Hashtag{UUIDModel: models.UUIDModel{ID: preset}, Name: "rust", Slug: "rust"}
			require.NoError(t, testDB.DB.Create(hashtag).Error)
			assert.Equal(t, preset, hashtag.ID)
		})

		t.Run("TableNames", func(t *testing.T) {
			assert.Equal(t, "hashtags", models.Hashtag{}.TableName())
			assert.Equal(t, "tagged_items", models.TaggedItem{}.TableName())
			assert.Equal(t, "hashtagged_items", models.HashtaggedItem{}.TableName())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHashtagCounterOnCreate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		tag, err := fixtures.CreateTestHashtag()
		require.NoError(t, err)
		assert.Equal(t, int64(0), tag.Count)
		assert.Nil(t, tag.LastUsed)

		base := utils.UTCNow().Truncate(time.Second)
		times := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}
		for _, at := range times {
			_, err := fixtures.CreateTestHashtaggedItem(tag, at)
			require.NoError(t, err)
		}

		var reloaded models.Hashtag
		require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
		assert.Equal(t, int64(3), reloaded.Count)
		require.NotNil(t, reloaded.LastUsed)
		assert.True(t, reloaded.LastUsed.Equal(times[2]))

		t.Run("OutOfOrderInsertKeepsNewestLastUsed", func(t *testing.T) {
			// A backdated association must not move last_used backwards.
			_, err := fixtures.CreateTestHashtaggedItem(tag, base.Add(-time.Hour))
			require.NoError(t, err)

			var again models.Hashtag
			require.NoError(t, testDB.DB.First(&again, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(4), again.Count)
			require.NotNil(t, again.LastUsed)
			assert.True(t, again.LastUsed.Equal(times[2]))
		})

		t.Run("PlainAssociationDoesNotCount", func(t *testing.T) {
			plainTag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			_, err = fixtures.CreateTestTaggedItem(plainTag)
			require.NoError(t, err)

			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", plainTag.ID).Error)
			assert.Equal(t, int64(0), reloaded.Count)
			assert.Nil(t, reloaded.LastUsed)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHashtagCounterOnDelete(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		tag, err := fixtures.CreateTestHashtag()
		require.NoError(t, err)

		base := utils.UTCNow().Truncate(time.Second)
		first, err := fixtures.CreateTestHashtaggedItem(tag, base)
		require.NoError(t, err)
		middle, err := fixtures.CreateTestHashtaggedItem(tag, base.Add(time.Minute))
		require.NoError(t, err)
		latest, err := fixtures.CreateTestHashtaggedItem(tag, base.Add(2*time.Minute))
		require.NoError(t, err)

		t.Run("DeleteOlderRowKeepsLastUsed", func(t *testing.T) {
			require.NoError(t, testDB.DB.Delete(middle).Error)

			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(2), reloaded.Count)
			require.NotNil(t, reloaded.LastUsed)
			assert.True(t, reloaded.LastUsed.Equal(latest.CreatedAt))
		})

		t.Run("DeleteNewestRowRecomputesLastUsed", func(t *testing.T) {
			require.NoError(t, testDB.DB.Delete(latest).Error)

			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(1), reloaded.Count)
			require.NotNil(t, reloaded.LastUsed)
			assert.True(t, reloaded.LastUsed.Equal(first.CreatedAt))
		})

		t.Run("DeleteLastRowZeroesCounters", func(t *testing.T) {
			require.NoError(t, testDB.DB.Delete(first).Error)

			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(0), reloaded.Count)
			assert.Nil(t, reloaded.LastUsed)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAutoRemoveUnusedTags(t *testing.T) {
	models.SetAutoRemoveUnusedTags(true)
	defer models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("RemovesTagWhenLastCountedRowGoes", func(t *testing.T) {
			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			item, err := fixtures.CreateTestHashtaggedItem(tag, utils.UTCNow())
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Delete(item).Error)

			var n int64
			require.NoError(t, testDB.DB.Model(&models.Hashtag{}).Where("id = ?", tag.ID).Count(&n).Error)
			assert.Equal(t, int64(0), n)
		})

		t.Run("RemovesTagWhenLastPlainRowGoes", func(t *testing.T) {
			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			item, err := fixtures.CreateTestTaggedItem(tag)
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Delete(item).Error)

			var n int64
			require.NoError(t, testDB.DB.Model(&models.Hashtag{}).Where("id = ?", tag.ID).Count(&n).Error)
			assert.Equal(t, int64(0), n)
		})

		t.Run("KeepsTagWhileAnotherTableReferencesIt", func(t *testing.T) {
			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			counted, err := fixtures.CreateTestHashtaggedItem(tag, utils.UTCNow())
			require.NoError(t, err)
			_, err = fixtures.CreateTestTaggedItem(tag)
			require.NoError(t, err)

			// The plain row still references the tag, so it survives.
			require.NoError(t, testDB.DB.Delete(counted).Error)

			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(0), reloaded.Count)
			assert.Nil(t, reloaded.LastUsed)
		})

		return nil
	})
	require.NoError(t, err)
}
