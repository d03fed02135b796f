package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go Generics", "go-generics"},
		{"  spaced  out  ", "spaced-out"},
		{"C++ & Rust!", "c-rust"},
		{"already-slugged", "already-slugged"},
		{"UPPER_case_123", "upper-case-123"},
		{"Café au Lait", "cafe-au-lait"},
		{"Über-Straße", "uber-stra-e"},
		{"Emoção & Ação", "emocao-acao"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}
