package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPtr(t *testing.T) {
	n := ToPtr(int64(3))
	require.NotNil(t, n)
	assert.Equal(t, int64(3), *n)

	b := ToPtr(false)
	require.NotNil(t, b)
	assert.False(t, *b)

	// each call yields a fresh pointer
	assert.NotSame(t, ToPtr("x"), ToPtr("x"))
}
