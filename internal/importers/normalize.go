package importers

import (
	"github.com/mrlokans/portfolio/internal/entities"
)

// Accepted column names per field, most specific first.
var (
	titleKeys         = []string{"title", "name", "project_name", "project"}
	cityKeys          = []string{"city", "town"}
	slugKeys          = []string{"slug"}
	galleryKeys       = []string{"gallery", "images", "photos"}
	thumbnailKeys     = []string{"thumbnail", "cover", "cover_image"}
	videoKeys         = []string{"videos", "video", "video_urls"}
	highlightKeys     = []string{"highlights"}
	amenityKeys       = []string{"amenities"}
	configurationKeys = []string{"configurations", "configuration", "units"}
	locationKeys      = []string{"location", "locality"}
	addressKeys       = []string{"address"}
	descriptionKeys   = []string{"description", "about"}
	categoryKeys      = []string{"category", "type"}
	statusKeys        = []string{"status"}
	developerKeys     = []string{"developer", "builder"}
	priceRangeKeys    = []string{"price_range", "price"}
	areaKeys          = []string{"area", "size"}
	possessionKeys    = []string{"possession", "possession_date"}
	reraKeys          = []string{"rera_number", "rera"}
	brochureKeys      = []string{"brochure", "brochure_url"}
	mapURLKeys        = []string{"map_url", "map", "google_map"}
)

// Draft is a validated row before media resolution and slug assignment.
// Media fields still hold the references exactly as written in the sheet.
type Draft struct {
	Row   int
	Title string
	City  string
	Slug  *string

	Location    *string
	Address     *string
	Description *string
	Category    *string
	Status      *string
	Developer   *string
	PriceRange  *string
	Area        *string
	Possession  *string
	ReraNumber  *string
	Brochure    *string
	MapURL      *string

	ThumbnailRef   string
	GalleryRefs    []string
	Videos         []string
	Highlights     []string
	Amenities      []string
	Configurations Configurations
}

// Normalize coerces a raw row into a Draft. The only failure is a missing
// title or city, reported as *RowValidationError.
func Normalize(ordinal int, row RawRow) (*Draft, error) {
	title := coerceString(row.lookup(titleKeys...))
	city := coerceString(row.lookup(cityKeys...))

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if city == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return nil, &RowValidationError{Row: ordinal, Missing: missing, Title: title}
	}

	return &Draft{
		Row:   ordinal,
		Title: title,
		City:  city,
		Slug:  optionalString(row.lookup(slugKeys...)),

		Location:    optionalString(row.lookup(locationKeys...)),
		Address:     optionalString(row.lookup(addressKeys...)),
		Description: optionalString(row.lookup(descriptionKeys...)),
		Category:    optionalString(row.lookup(categoryKeys...)),
		Status:      optionalString(row.lookup(statusKeys...)),
		Developer:   optionalString(row.lookup(developerKeys...)),
		PriceRange:  optionalString(row.lookup(priceRangeKeys...)),
		Area:        optionalString(row.lookup(areaKeys...)),
		Possession:  optionalString(row.lookup(possessionKeys...)),
		ReraNumber:  optionalString(row.lookup(reraKeys...)),
		Brochure:    optionalString(row.lookup(brochureKeys...)),
		MapURL:      optionalString(row.lookup(mapURLKeys...)),

		ThumbnailRef:   coerceString(row.lookup(thumbnailKeys...)),
		GalleryRefs:    coerceList(row.lookup(galleryKeys...)),
		Videos:         coerceList(row.lookup(videoKeys...)),
		Highlights:     coerceList(row.lookup(highlightKeys...)),
		Amenities:      coerceList(row.lookup(amenityKeys...)),
		Configurations: coerceConfigurations(row.lookup(configurationKeys...)),
	}, nil
}

// TitleOf extracts a best-effort title for failure reports.
func TitleOf(row RawRow) string {
	return coerceString(row.lookup(titleKeys...))
}

// Project assembles the entity to persist from resolved media and the
// assigned slug. An empty slug is stored as NULL.
func (d *Draft) Project(slug string, gallery []string, thumbnail string) *entities.Project {
	p := &entities.Project{
		Title:       d.Title,
		City:        d.City,
		Location:    d.Location,
		Address:     d.Address,
		Description: d.Description,
		Category:    d.Category,
		Status:      d.Status,
		Developer:   d.Developer,
		PriceRange:  d.PriceRange,
		Area:        d.Area,
		Possession:  d.Possession,
		ReraNumber:  d.ReraNumber,
		Brochure:    d.Brochure,
		MapURL:      d.MapURL,
		Gallery:     gallery,
		Videos:      d.Videos,
		Highlights:  d.Highlights,
		Amenities:   d.Amenities,
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if slug != "" {
		p.Slug = &slug
	}
	if thumbnail != "" {
		p.Thumbnail = &thumbnail
	} else if len(gallery) > 0 {
		first := gallery[0]
		p.Thumbnail = &first
	}

	if raw, err := d.Configurations.MarshalJSON(); err == nil {
		p.Configurations = raw
	}
	return p
}
