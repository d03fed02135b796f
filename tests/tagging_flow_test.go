// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/app/dto"
	businessflow "github.com/tagforge/tagforge/business_flow"
	"github.com/tagforge/tagforge/config"
	"github.com/tagforge/tagforge/models"
	"github.com/tagforge/tagforge/repository"
	testingutil "github.com/tagforge/tagforge/testing"
	"github.com/tagforge/tagforge/utils"
)

func newTestTaggingFlow(testDB *testingutil.TestDB) businessflow.TaggingFlow {
	return businessflow.NewTaggingFlow(
		repository.NewHashtagRepository(testDB.DB),
		repository.NewTaggedItemRepository(testDB.DB),
		repository.NewHashtaggedItemRepository(testDB.DB),
		testDB.DB,
		nil, // no redis in tests, trending falls through to the database
		config.TaggingConfig{TrendingLimit: 20},
		nil,
	)
}

func TestTagObject(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestTaggingFlow(testDB)
		ctx := context.Background()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		objectID := uuid.New()

		t.Run("CreatesHashtagOnFirstUse", func(t *testing.T) {
			resp, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article",
				ObjectID:    objectID,
				Tag:         "Go Generics",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Go Generics", resp.Hashtag.Name)
			assert.Equal(t, "go-generics", resp.Hashtag.Slug)
			assert.Equal(t, int64(1), resp.Hashtag.Count)
			assert.NotNil(t, resp.Hashtag.LastUsed)
		})

		t.Run("ReusesExistingHashtag", func(t *testing.T) {
			resp, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article",
				ObjectID:    uuid.New(),
				Tag:         "Go Generics",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Hashtag.Count)
		})

		t.Run("RejectsDuplicate", func(t *testing.T) {
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article",
				ObjectID:    objectID,
				Tag:         "Go Generics",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAlreadyTagged(err))
		})

		t.Run("UncountedAssociationSkipsCounters", func(t *testing.T) {
			resp, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "bookmark",
				ObjectID:    uuid.New(),
				Tag:         "reading-list",
				Counted:     utils.ToPtr(false),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.Hashtag.Count)
			assert.Nil(t, resp.Hashtag.LastUsed)
		})

		t.Run("RejectsEmptyTag", func(t *testing.T) {
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article",
				ObjectID:    uuid.New(),
				Tag:         "   ",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsValidationFailure(err))
		})

		t.Run("RejectsNilObjectID", func(t *testing.T) {
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article",
				Tag:         "golang",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsValidationFailure(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUntagObject(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestTaggingFlow(testDB)
		ctx := context.Background()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("CountersSettleWithAutoRemoveOff", func(t *testing.T) {
			models.SetAutoRemoveUnusedTags(false)

			objectID := uuid.New()
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article", ObjectID: objectID, Tag: "ephemeral",
			}, metadata)
			require.NoError(t, err)

			resp, err := flow.UntagObject(ctx, &dto.UntagObjectRequest{
				ContentType: "article", ObjectID: objectID, Tag: "ephemeral",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.HashtagRemoved)
			require.NotNil(t, resp.Hashtag)
			assert.Equal(t, int64(0), resp.Hashtag.Count)
			assert.Nil(t, resp.Hashtag.LastUsed)
		})

		t.Run("HashtagRemovedWithAutoRemoveOn", func(t *testing.T) {
			models.SetAutoRemoveUnusedTags(true)
			defer models.SetAutoRemoveUnusedTags(false)

			objectID := uuid.New()
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article", ObjectID: objectID, Tag: "fleeting",
			}, metadata)
			require.NoError(t, err)

			resp, err := flow.UntagObject(ctx, &dto.UntagObjectRequest{
				ContentType: "article", ObjectID: objectID, Tag: "fleeting",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.HashtagRemoved)
			assert.Nil(t, resp.Hashtag)
		})

		t.Run("UnknownHashtag", func(t *testing.T) {
			_, err := flow.UntagObject(ctx, &dto.UntagObjectRequest{
				ContentType: "article", ObjectID: uuid.New(), Tag: "never-seen",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsHashtagNotFound(err))
		})

		t.Run("NotTagged", func(t *testing.T) {
			models.SetAutoRemoveUnusedTags(false)

			_, err := flow.CreateHashtag(ctx, &dto.CreateHashtagRequest{Name: "orphan"}, metadata)
			require.NoError(t, err)

			_, err = flow.UntagObject(ctx, &dto.UntagObjectRequest{
				ContentType: "article", ObjectID: uuid.New(), Tag: "orphan",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAssociationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListObjectTags(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestTaggingFlow(testDB)
		ctx := context.Background()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		objectID := uuid.New()
		for _, tag := range []string{"golang", "databases"} {
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article", ObjectID: objectID, Tag: tag,
			}, metadata)
			require.NoError(t, err)
		}
		_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
			ContentType: "article", ObjectID: objectID, Tag: "drafts", Counted: utils.ToPtr(false),
		}, metadata)
		require.NoError(t, err)

		resp, err := flow.ListObjectTags(ctx, "article", objectID)
		require.NoError(t, err)
		require.Len(t, resp.Hashtags, 3)

		names := make([]string, 0, len(resp.Hashtags))
		for _, h := range resp.Hashtags {
			names = append(names, h.Name)
		}
		assert.ElementsMatch(t, []string{"golang", "databases", "drafts"}, names)

		t.Run("EmptyForUntaggedObject", func(t *testing.T) {
			resp, err := flow.ListObjectTags(ctx, "article", uuid.New())
			require.NoError(t, err)
			assert.Empty(t, resp.Hashtags)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHashtagCRUD(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestTaggingFlow(testDB)
		ctx := context.Background()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		created, err := flow.CreateHashtag(ctx, &dto.CreateHashtagRequest{Name: "Machine Learning"}, metadata)
		require.NoError(t, err)
		assert.Equal(t, "machine-learning", created.Slug)

		t.Run("DuplicateName", func(t *testing.T) {
			_, err := flow.CreateHashtag(ctx, &dto.CreateHashtagRequest{Name: "Machine Learning"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsHashtagAlreadyExists(err))
		})

		t.Run("Get", func(t *testing.T) {
			found, err := flow.GetHashtag(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.Name, found.Name)
		})

		t.Run("GetNotFound", func(t *testing.T) {
			_, err := flow.GetHashtag(ctx, uuid.New())
			require.Error(t, err)
			assert.True(t, businessflow.IsHashtagNotFound(err))
		})

		t.Run("Update", func(t *testing.T) {
			updated, err := flow.UpdateHashtag(ctx, created.ID, &dto.UpdateHashtagRequest{Name: "Deep Learning"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Deep Learning", updated.Name)
			assert.Equal(t, "deep-learning", updated.Slug)
		})

		t.Run("PatchWithoutFieldsIsNoop", func(t *testing.T) {
			patched, err := flow.PatchHashtag(ctx, created.ID, &dto.PatchHashtagRequest{}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Deep Learning", patched.Name)
		})

		t.Run("SetIcon", func(t *testing.T) {
			withIcon, err := flow.SetHashtagIcon(ctx, created.ID, "/uploads/icons/dl.png")
			require.NoError(t, err)
			require.NotNil(t, withIcon.IconPath)
			assert.Equal(t, "/uploads/icons/dl.png", *withIcon.IconPath)
		})

		t.Run("Delete", func(t *testing.T) {
			require.NoError(t, flow.DeleteHashtag(ctx, created.ID, metadata))

			_, err := flow.GetHashtag(ctx, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsHashtagNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListAndTrendingHashtags(t *testing.T) {
	models.SetAutoRemoveUnusedTags(false)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newTestTaggingFlow(testDB)
		ctx := context.Background()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		// "popular" tagged twice, "niche" once, "unused" never
		for _, object := range []uuid.UUID{uuid.New(), uuid.New()} {
			_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
				ContentType: "article", ObjectID: object, Tag: "popular",
			}, metadata)
			require.NoError(t, err)
		}
		_, err := flow.TagObject(ctx, &dto.TagObjectRequest{
			ContentType: "article", ObjectID: uuid.New(), Tag: "niche",
		}, metadata)
		require.NoError(t, err)
		_, err = flow.CreateHashtag(ctx, &dto.CreateHashtagRequest{Name: "unused"}, metadata)
		require.NoError(t, err)

		t.Run("ListOrderedByUsage", func(t *testing.T) {
			resp, err := flow.ListHashtags(ctx, &dto.ListHashtagsRequest{})
			require.NoError(t, err)
			require.Len(t, resp.Hashtags, 3)
			assert.Equal(t, "popular", resp.Hashtags[0].Name)
			assert.Equal(t, int64(3), resp.Pagination.Total)
			assert.Equal(t, 1, resp.Pagination.Page)
			assert.Equal(t, 20, resp.Pagination.PageSize)
		})

		t.Run("Paging", func(t *testing.T) {
			resp, err := flow.ListHashtags(ctx, &dto.ListHashtagsRequest{Page: 2, PageSize: 2})
			require.NoError(t, err)
			assert.Len(t, resp.Hashtags, 1)
			assert.Equal(t, 2, resp.Pagination.Page)
		})

		t.Run("RejectsBadPaging", func(t *testing.T) {
			_, err := flow.ListHashtags(ctx, &dto.ListHashtagsRequest{Page: -1})
			require.Error(t, err)
			assert.True(t, businessflow.IsValidationFailure(err))

			_, err = flow.ListHashtags(ctx, &dto.ListHashtagsRequest{PageSize: 500})
			require.Error(t, err)
			assert.True(t, businessflow.IsValidationFailure(err))
		})

		t.Run("TrendingSkipsUnusedTags", func(t *testing.T) {
			resp, err := flow.TrendingHashtags(ctx)
			require.NoError(t, err)
			assert.False(t, resp.Cached)
			require.Len(t, resp.Hashtags, 2)
			for _, h := range resp.Hashtags {
				assert.NotEqual(t, "unused", h.Name)
			}
		})

		return nil
	})
	require.NoError(t, err)
}
