package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Project is one catalogue entry (a residential or commercial development).
// Optional scalars are pointers so absent values persist as NULL rather than
// empty strings, keeping every row the same shape regardless of its source.
type Project struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Slug  *string `gorm:"uniqueIndex;size:255" json:"slug"`
	Title string  `gorm:"size:512;not null" json:"title"`
	City  string  `gorm:"index;size:128;not null" json:"city"`

	Location    *string `gorm:"size:512" json:"location"`
	Address     *string `gorm:"size:1024" json:"address"`
	Description *string `gorm:"type:text" json:"description"`
	Category    *string `gorm:"index;size:128" json:"category"`
	Status      *string `gorm:"size:64" json:"status"`
	Developer   *string `gorm:"size:256" json:"developer"`
	PriceRange  *string `gorm:"size:256" json:"price_range"`
	Area        *string `gorm:"size:256" json:"area"`
	Possession  *string `gorm:"size:128" json:"possession"`
	ReraNumber  *string `gorm:"size:128" json:"rera_number"`
	Brochure    *string `gorm:"size:2048" json:"brochure"`
	MapURL      *string `gorm:"size:2048" json:"map_url"`

	Thumbnail      *string                     `gorm:"size:2048" json:"thumbnail"`
	Gallery        datatypes.JSONSlice[string] `json:"gallery"`
	Videos         datatypes.JSONSlice[string] `json:"videos"`
	Highlights     datatypes.JSONSlice[string] `json:"highlights"`
	Amenities      datatypes.JSONSlice[string] `json:"amenities"`
	Configurations datatypes.JSON              `json:"configurations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// UnitConfiguration describes one unit type offered by a project. Values are
// kept as display text and never validated numerically.
type UnitConfiguration struct {
	Type  string `json:"type"`
	Size  string `json:"size"`
	Price string `json:"price"`
}
