package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRulesFieldsFor(t *testing.T) {
	rules := FieldRules{
		PerAction: map[Action][]string{
			ActionList:   {"id", "name"},
			ActionUpdate: {"id", "name", "updated_at"},
		},
		Default: []string{"id"},
	}

	t.Run("ExplicitAction", func(t *testing.T) {
		assert.Equal(t, []string{"id", "name"}, rules.FieldsFor(ActionList))
	})

	t.Run("PartialUpdateFallsBackToUpdate", func(t *testing.T) {
		assert.Equal(t, []string{"id", "name", "updated_at"}, rules.FieldsFor(ActionPartialUpdate))
	})

	t.Run("PartialUpdateOwnEntryWins", func(t *testing.T) {
		own := FieldRules{
			PerAction: map[Action][]string{
				ActionUpdate:        {"id", "name"},
				ActionPartialUpdate: {"id"},
			},
		}
		assert.Equal(t, []string{"id"}, own.FieldsFor(ActionPartialUpdate))
	})

	t.Run("UnknownActionFallsBackToDefault", func(t *testing.T) {
		assert.Equal(t, []string{"id"}, rules.FieldsFor(ActionDestroy))
	})

	t.Run("NilDefaultMeansUnfiltered", func(t *testing.T) {
		open := FieldRules{}
		assert.Nil(t, open.FieldsFor(ActionRetrieve))
	})
}

func TestFilterFields(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	hashtag := HashtagDTO{
		ID:        uuid.New(),
		Name:      "golang",
		Slug:      "golang",
		Count:     3,
		LastUsed:  &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("DropsDisallowedFields", func(t *testing.T) {
		out, err := FilterFields(hashtag, []string{"id", "name", "count"})
		require.NoError(t, err)
		assert.Len(t, out, 3)
		assert.Equal(t, "golang", out["name"])
		assert.NotContains(t, out, "created_at")
		assert.NotContains(t, out, "slug")
	})

	t.Run("NilAllowListPassesThrough", func(t *testing.T) {
		out, err := FilterFields(hashtag, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "created_at")
		assert.Contains(t, out, "slug")
	})

	t.Run("UnknownAllowedFieldIgnored", func(t *testing.T) {
		out, err := FilterFields(hashtag, []string{"id", "nope"})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("HashtagListRowsOmitTimestamps", func(t *testing.T) {
		out, err := FilterFields(hashtag, HashtagFieldRules.FieldsFor(ActionList))
		require.NoError(t, err)
		assert.Contains(t, out, "count")
		assert.Contains(t, out, "last_used")
		assert.NotContains(t, out, "created_at")
		assert.NotContains(t, out, "updated_at")
	})
}
