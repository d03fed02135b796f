// Package utils provides utility functions for the application.
package utils

// ToPtr returns a pointer to v; useful for building optional struct fields
// from literals.
func ToPtr[T any](v T) *T {
	return &v
}
