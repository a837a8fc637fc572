package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "title with spaces",
			input:    "Palm Grove Residency",
			expected: "palm-grove-residency",
		},
		{
			name:     "collapses whitespace runs",
			input:    "Sea   View\t\nTowers",
			expected: "sea-view-towers",
		},
		{
			name:     "non-breaking spaces separate words",
			input:    "Palm\u00a0Grove\u00a0Residency",
			expected: "palm-grove-residency",
		},
		{
			name:     "em space separates words",
			input:    "Palm\u2003Grove",
			expected: "palm-grove",
		},
		{
			name:     "mixed unicode and ascii whitespace collapse",
			input:    "Sea \u00a0\u2009View",
			expected: "sea-view",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  Lake Side  ",
			expected: "lake-side",
		},
		{
			name:     "strips punctuation",
			input:    "Skyline (Phase 2): 3BHK!",
			expected: "skyline-phase-2-3bhk",
		},
		{
			name:     "keeps hyphens and underscores",
			input:    "green_acres-II",
			expected: "green_acres-ii",
		},
		{
			name:     "drops non-ascii letters",
			input:    "Résidence Étoile",
			expected: "rsidence-toile",
		},
		{
			name:     "only the separator survives",
			input:    "☀ ☀",
			expected: "-",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	assert.Equal(t, Slugify("Palm Grove Residency"), Slugify("Palm Grove Residency"))
}
