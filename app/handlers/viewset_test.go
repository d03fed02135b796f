package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/app/dto"
)

func TestPermissionsFor(t *testing.T) {
	adminOnly := Permission{Name: "AdminOnly", Check: nil}
	vs := &ViewSet{
		Permissions: map[dto.Action][]Permission{
			dto.ActionList:   {AllowAny},
			dto.ActionUpdate: {adminOnly},
		},
		DefaultPermissions: []Permission{IsAuthenticated},
	}

	t.Run("ExplicitEntry", func(t *testing.T) {
		perms := vs.PermissionsFor(dto.ActionList)
		require.Len(t, perms, 1)
		assert.Equal(t, "AllowAny", perms[0].Name)
	})

	t.Run("PartialUpdateFallsBackToUpdate", func(t *testing.T) {
		perms := vs.PermissionsFor(dto.ActionPartialUpdate)
		require.Len(t, perms, 1)
		assert.Equal(t, "AdminOnly", perms[0].Name)
	})

	t.Run("MissingActionUsesDefaults", func(t *testing.T) {
		perms := vs.PermissionsFor(dto.ActionDestroy)
		require.Len(t, perms, 1)
		assert.Equal(t, "IsAuthenticated", perms[0].Name)
	})

	t.Run("PartialUpdateWithOwnEntry", func(t *testing.T) {
		vs := &ViewSet{
			Permissions: map[dto.Action][]Permission{
				dto.ActionPartialUpdate: {AllowAny},
				dto.ActionUpdate:        {adminOnly},
			},
		}
		perms := vs.PermissionsFor(dto.ActionPartialUpdate)
		require.Len(t, perms, 1)
		assert.Equal(t, "AllowAny", perms[0].Name)
	})
}

func TestViewSetSerialize(t *testing.T) {
	vs := &ViewSet{
		FieldRules: dto.FieldRules{
			PerAction: map[dto.Action][]string{
				dto.ActionList: {"name", "count"},
			},
		},
	}

	row := dto.HashtagDTO{Name: "golang", Slug: "golang", Count: 3}

	t.Run("SingleValue", func(t *testing.T) {
		out, err := vs.Serialize(dto.ActionList, row)
		require.NoError(t, err)

		filtered, ok := out.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "golang", filtered["name"])
		assert.NotContains(t, filtered, "slug")
	})

	t.Run("Slice", func(t *testing.T) {
		out, err := vs.Serialize(dto.ActionList, []dto.HashtagDTO{row, row})
		require.NoError(t, err)

		rows, ok := out.([]map[string]any)
		require.True(t, ok)
		require.Len(t, rows, 2)
		assert.NotContains(t, rows[0], "slug")
	})

	t.Run("NoRulesPassesThrough", func(t *testing.T) {
		out, err := vs.Serialize(dto.ActionRetrieve, row)
		require.NoError(t, err)
		assert.Equal(t, row, out)
	})
}
