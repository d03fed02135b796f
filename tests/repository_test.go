// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/models"
	"github.com/tagforge/tagforge/repository"
	testingutil "github.com/tagforge/tagforge/testing"
	"github.com/tagforge/tagforge/utils"
)

func TestHashtagRepository(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewHashtagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		tag, err := fixtures.CreateTestHashtagNamed("golang")
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, tag.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "golang", found.Name)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByName", func(t *testing.T) {
			found, err := repo.ByName(ctx, "golang")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tag.ID, found.ID)
		})

		t.Run("ByNameNotFound", func(t *testing.T) {
			found, err := repo.ByName(ctx, "missing")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("BySlug", func(t *testing.T) {
			found, err := repo.BySlug(ctx, "golang")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tag.ID, found.ID)
		})

		t.Run("ByFilterMinCount", func(t *testing.T) {
			busy, err := fixtures.CreateTestHashtagNamed("busy")
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				_, err := fixtures.CreateTestHashtaggedItem(busy, utils.UTCNow())
				require.NoError(t, err)
			}

			found, err := repo.ByFilter(ctx, models.HashtagFilter{MinCount: utils.ToPtr(int64(3))}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, busy.ID, found[0].ID)
		})

		t.Run("ListByUsage", func(t *testing.T) {
			listed, err := repo.ListByUsage(ctx, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, listed)
			assert.Equal(t, "busy", listed[0].Name)
			for i := 1; i < len(listed); i++ {
				assert.GreaterOrEqual(t, listed[i-1].Count, listed[i].Count)
			}
		})

		t.Run("ListRecentlyUsed", func(t *testing.T) {
			listed, err := repo.ListRecentlyUsed(ctx, 10)
			require.NoError(t, err)
			require.Len(t, listed, 1)
			assert.Equal(t, "busy", listed[0].Name)
		})

		t.Run("CountAndExists", func(t *testing.T) {
			name := "golang"
			count, err := repo.Count(ctx, models.HashtagFilter{Name: &name})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			exists, err := repo.Exists(ctx, models.HashtagFilter{Name: &name})
			require.NoError(t, err)
			assert.True(t, exists)
		})

		t.Run("UpdateAndDelete", func(t *testing.T) {
			tag.Name = "go-lang"
			tag.Slug = "go-lang"
			require.NoError(t, repo.Update(ctx, tag))

			found, err := repo.ByName(ctx, "go-lang")
			require.NoError(t, err)
			require.NotNil(t, found)

			require.NoError(t, repo.Delete(ctx, found))
			found, err = repo.ByName(ctx, "go-lang")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHashtaggedItemRepository(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewHashtaggedItemRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		tag, err := fixtures.CreateTestHashtagNamed("news")
		require.NoError(t, err)

		objectID := uuid.New()
		base := utils.UTCNow().Truncate(time.Second)

		older := &models.HashtaggedItem{
			HashtagID:   tag.ID,
			ContentType: "article",
			ObjectID:    objectID,
			CreatedAt:   base,
		}
		require.NoError(t, repo.Save(ctx, older))

		newer, err := fixtures.CreateTestHashtaggedItem(tag, base.Add(time.Minute))
		require.NoError(t, err)

		t.Run("ByObject", func(t *testing.T) {
			items, err := repo.ByObject(ctx, "article", objectID)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, older.ID, items[0].ID)
		})

		t.Run("ByObjectAndTag", func(t *testing.T) {
			item, err := repo.ByObjectAndTag(ctx, "article", objectID, tag.ID)
			require.NoError(t, err)
			require.NotNil(t, item)
			assert.Equal(t, older.ID, item.ID)

			item, err = repo.ByObjectAndTag(ctx, "article", uuid.New(), tag.ID)
			require.NoError(t, err)
			assert.Nil(t, item)
		})

		t.Run("LatestForTag", func(t *testing.T) {
			latest, err := repo.LatestForTag(ctx, tag.ID)
			require.NoError(t, err)
			require.NotNil(t, latest)
			assert.Equal(t, newer.ID, latest.ID)
		})

		t.Run("DeleteByObjectRunsHooks", func(t *testing.T) {
			deleted, err := repo.DeleteByObject(ctx, "article", objectID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), deleted)

			// Counter maintenance fired for the removed row.
			var reloaded models.Hashtag
			require.NoError(t, testDB.DB.First(&reloaded, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(1), reloaded.Count)
			require.NotNil(t, reloaded.LastUsed)
			assert.True(t, reloaded.LastUsed.Equal(newer.CreatedAt))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTaggedItemRepository(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTaggedItemRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		tag, err := fixtures.CreateTestHashtagNamed("links")
		require.NoError(t, err)

		objectID := uuid.New()
		item := &models.TaggedItem{
			HashtagID:   tag.ID,
			ContentType: "bookmark",
			ObjectID:    objectID,
		}
		require.NoError(t, repo.Save(ctx, item))

		t.Run("ByObject", func(t *testing.T) {
			items, err := repo.ByObject(ctx, "bookmark", objectID)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, item.ID, items[0].ID)
		})

		t.Run("DeleteByObject", func(t *testing.T) {
			deleted, err := repo.DeleteByObject(ctx, "bookmark", objectID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), deleted)

			items, err := repo.ByObject(ctx, "bookmark", objectID)
			require.NoError(t, err)
			assert.Empty(t, items)
		})

		return nil
	})
	require.NoError(t, err)
}
