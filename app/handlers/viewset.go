// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v3"

	"github.com/tagforge/tagforge/app/dto"
	"github.com/tagforge/tagforge/app/services"
)

// Permission is a named predicate evaluated against the request before an
// action runs
type Permission struct {
	Name  string
	Check func(c fiber.Ctx) bool
}

// AllowAny admits every request
var AllowAny = Permission{
	Name:  "AllowAny",
	Check: func(c fiber.Ctx) bool { return true },
}

// IsAuthenticated admits requests the auth middleware attached a subject to
var IsAuthenticated = Permission{
	Name: "IsAuthenticated",
	Check: func(c fiber.Ctx) bool {
		subject, _ := c.Locals("subject").(string)
		return subject != ""
	},
}

// HasAccessToken admits only tokens of type "access", rejecting anything
// else that happens to carry valid claims
var HasAccessToken = Permission{
	Name: "HasAccessToken",
	Check: func(c fiber.Ctx) bool {
		claims, ok := c.Locals("token_claims").(*services.TokenClaims)
		return ok && claims.TokenType == "access"
	},
}

// ViewSet selects the serializer field set and the permission list for each
// lifecycle action of a resource endpoint. Lookups for an action missing
// from the per-action table fall back from partial_update to update, then
// to the defaults.
type ViewSet struct {
	FieldRules         dto.FieldRules
	Permissions        map[dto.Action][]Permission
	DefaultPermissions []Permission
}

// PermissionsFor resolves the permission list for an action
func (v *ViewSet) PermissionsFor(action dto.Action) []Permission {
	if perms, ok := v.Permissions[action]; ok {
		return perms
	}
	if action == dto.ActionPartialUpdate {
		if perms, ok := v.Permissions[dto.ActionUpdate]; ok {
			return perms
		}
	}
	return v.DefaultPermissions
}

// Authorize evaluates the action's permissions and returns the first denial
func (v *ViewSet) Authorize(c fiber.Ctx, action dto.Action) error {
	for _, perm := range v.PermissionsFor(action) {
		if !perm.Check(c) {
			return fmt.Errorf("permission %s denied", perm.Name)
		}
	}
	return nil
}

// Serialize applies the action's response field allow-list to a single value
// or to every element of a slice
func (v *ViewSet) Serialize(action dto.Action, value any) (any, error) {
	allowed := v.FieldRules.FieldsFor(action)
	if allowed == nil {
		return value, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		out := make([]map[string]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			filtered, err := dto.FilterFields(rv.Index(i).Interface(), allowed)
			if err != nil {
				return nil, err
			}
			out = append(out, filtered)
		}
		return out, nil
	}

	return dto.FilterFields(value, allowed)
}

// NewHashtagViewSet wires the hashtag endpoint's per-action behavior: reads
// are public, every mutation needs an authenticated access token.
func NewHashtagViewSet() *ViewSet {
	return &ViewSet{
		FieldRules: dto.HashtagFieldRules,
		Permissions: map[dto.Action][]Permission{
			dto.ActionList:     {AllowAny},
			dto.ActionRetrieve: {AllowAny},
		},
		DefaultPermissions: []Permission{IsAuthenticated, HasAccessToken},
	}
}
