// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/app/scheduler"
	"github.com/tagforge/tagforge/models"
	testingutil "github.com/tagforge/tagforge/testing"
	"github.com/tagforge/tagforge/utils"
)

func TestReconcileScheduler(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		sweep := scheduler.NewReconcileScheduler(testDB.DB, nil, time.Hour)
		ctx := context.Background()

		t.Run("NoDriftIsNoop", func(t *testing.T) {
			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			_, err = fixtures.CreateTestHashtaggedItem(tag, utils.UTCNow())
			require.NoError(t, err)

			fixed, removed, err := sweep.Reconcile(ctx)
			require.NoError(t, err)
			assert.Zero(t, fixed)
			assert.Zero(t, removed)
		})

		t.Run("RepairsDriftFromRawDelete", func(t *testing.T) {
			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			base := utils.UTCNow().Truncate(time.Second)
			_, err = fixtures.CreateTestHashtaggedItem(tag, base)
			require.NoError(t, err)
			newest, err := fixtures.CreateTestHashtaggedItem(tag, base.Add(time.Minute))
			require.NoError(t, err)

			// Raw SQL bypasses the lifecycle hooks, leaving stale counters.
			require.NoError(t, testDB.DB.Exec("DELETE FROM hashtagged_items WHERE id = ?", newest.ID).Error)

			var stale models.Hashtag
			require.NoError(t, testDB.DB.First(&stale, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(2), stale.Count)

			fixed, _, err := sweep.Reconcile(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, fixed)

			var repaired models.Hashtag
			require.NoError(t, testDB.DB.First(&repaired, "id = ?", tag.ID).Error)
			assert.Equal(t, int64(1), repaired.Count)
			require.NotNil(t, repaired.LastUsed)
			assert.True(t, repaired.LastUsed.Equal(base))
		})

		t.Run("RemovesUnreferencedTagWhenPolicyOn", func(t *testing.T) {
			models.SetAutoRemoveUnusedTags(true)
			defer models.SetAutoRemoveUnusedTags(false)

			tag, err := fixtures.CreateTestHashtag()
			require.NoError(t, err)
			item, err := fixtures.CreateTestHashtaggedItem(tag, utils.UTCNow())
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Exec("DELETE FROM hashtagged_items WHERE id = ?", item.ID).Error)

			_, removed, err := sweep.Reconcile(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			var n int64
			require.NoError(t, testDB.DB.Model(&models.Hashtag{}).Where("id = ?", tag.ID).Count(&n).Error)
			assert.Equal(t, int64(0), n)
		})

		return nil
	})
	require.NoError(t, err)
}
