package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"projects/a.jpg":   "projects/a.jpg",
		"projects//b.png":  "projects/b.png",
		`projects\c.webp`:  "projects/c.webp",
		"projects/./d.gif": "projects/d.gif",
		" projects/e.svg ": "projects/e.svg",
	}
	for in, want := range valid {
		got, err := CleanKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "/etc/passwd", "../secret", "projects/../../x", "."} {
		_, err := CleanKey(in)
		assert.ErrorIs(t, err, ErrInvalidKey, in)
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/projects/a.jpg", JoinURL("https://cdn.example.com/", "/projects/a.jpg"))
	assert.Equal(t, "/media/projects/a.jpg", JoinURL("/media", "projects/a.jpg"))
}
