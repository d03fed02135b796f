package models

import "sync/atomic"

var autoRemoveUnusedTags atomic.Bool

// SetAutoRemoveUnusedTags toggles the process-wide policy of deleting a
// hashtag once its last association row is removed. It is read by the
// delete hooks on the association models and is normally set once at
// startup from configuration.
func SetAutoRemoveUnusedTags(enabled bool) {
	autoRemoveUnusedTags.Store(enabled)
}

// AutoRemoveUnusedTags reports whether unused hashtags are deleted
// automatically.
func AutoRemoveUnusedTags() bool {
	return autoRemoveUnusedTags.Load()
}
