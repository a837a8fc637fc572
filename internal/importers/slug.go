package importers

import (
	"strings"

	"github.com/mrlokans/portfolio/internal/utils"
)

// AssignSlug derives the slug from the explicit slug column, falling back to
// the title. Uniqueness is left to the store; a collision fails the row.
func AssignSlug(d *Draft) string {
	if d.Slug != nil && strings.TrimSpace(*d.Slug) != "" {
		return utils.Slugify(*d.Slug)
	}
	return utils.Slugify(d.Title)
}
