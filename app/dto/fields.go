package dto

import "encoding/json"

// Action is the closed set of lifecycle actions a resource endpoint serves
type Action string

const (
	ActionCreate        Action = "create"
	ActionRetrieve      Action = "retrieve"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionList          Action = "list"
	ActionDestroy       Action = "destroy"
)

// FieldRules maps actions to the response fields each may expose. Lookups
// fall back from partial_update to update, then to the default list; a nil
// default exposes everything.
type FieldRules struct {
	PerAction map[Action][]string
	Default   []string
}

// FieldsFor resolves the allow-list for an action
func (r FieldRules) FieldsFor(action Action) []string {
	if fields, ok := r.PerAction[action]; ok {
		return fields
	}
	if action == ActionPartialUpdate {
		if fields, ok := r.PerAction[ActionUpdate]; ok {
			return fields
		}
	}
	return r.Default
}

// FilterFields renders v as JSON and drops every top-level field not in the
// allow-list. A nil allow-list passes v through unfiltered.
func FilterFields(v any, allowed []string) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}

	if allowed == nil {
		return full, nil
	}

	filtered := make(map[string]any, len(allowed))
	for _, field := range allowed {
		if value, ok := full[field]; ok {
			filtered[field] = value
		}
	}
	return filtered, nil
}

// HashtagFieldRules is the allow-listing applied to hashtag responses: list
// rows omit the icon path and timestamps, single-resource reads expose
// everything, and mutations echo the identifying fields plus the counters.
var HashtagFieldRules = FieldRules{
	PerAction: map[Action][]string{
		ActionList:   {"id", "name", "slug", "count", "last_used"},
		ActionCreate: {"id", "name", "slug", "count", "last_used", "created_at"},
		ActionUpdate: {"id", "name", "slug", "count", "last_used", "updated_at"},
	},
	Default: nil,
}
