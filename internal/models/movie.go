package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryFilm     = "film"
	CategoryTrending = "trending"
	CategorySeries   = "series"
)

// Categories lists every accepted value of the category discriminator.
var Categories = []string{CategoryFilm, CategoryTrending, CategorySeries}

// Movie is a catalog item. Series carry Seasons, everything else carries Duration;
// exactly one of the two is persisted at a time.
type Movie struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id" example:"5b0e0d4e-8f7c-4c0a-9a43-3d1c7d3b2f10"`
	Title       string    `gorm:"not null;size:200;uniqueIndex:idx_movies_title_year" json:"title" example:"The Dark Knight"`
	Description string    `gorm:"type:text;not null" json:"description" example:"Batman raises the stakes in his war on crime."`
	Year        int       `gorm:"not null;index;uniqueIndex:idx_movies_title_year" json:"year" example:"2008"`
	Rating      float64   `gorm:"not null;index" json:"rating" example:"9.0"`
	Duration    *string   `gorm:"size:50" json:"duration,omitempty" example:"2h 32m"`
	Seasons     *int      `json:"seasons,omitempty"`
	Director    string    `gorm:"not null;size:100" json:"director" example:"Christopher Nolan"`
	Image       string    `gorm:"not null" json:"image" example:"http://localhost:9000/movieflix/posters/inception.jpg"`
	Category    string    `gorm:"not null;size:20;index:idx_movies_category_created,priority:1" json:"category" example:"film"`
	Genres      []Genre   `gorm:"many2many:movie_genres;" json:"-"`
	CreatedBy   string    `gorm:"type:uuid;not null;<-:create" json:"createdBy"`
	UpdatedBy   *string   `gorm:"type:uuid" json:"updatedBy,omitempty"`
	CreatedAt   time.Time `gorm:"index:idx_movies_category_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Movie) TableName() string {
	return "movies"
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsSeries reports whether the item follows the series schema.
func (m *Movie) IsSeries() bool {
	return m.Category == CategorySeries
}

// GenreNames returns the genre tags in their stored order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// FormattedDuration renders "N Season(s)" for series and the duration label otherwise.
func (m *Movie) FormattedDuration() string {
	if m.IsSeries() {
		if m.Seasons == nil {
			return ""
		}
		if *m.Seasons > 1 {
			return fmt.Sprintf("%d Seasons", *m.Seasons)
		}
		return fmt.Sprintf("%d Season", *m.Seasons)
	}
	if m.Duration == nil {
		return ""
	}
	return *m.Duration
}

// MovieFilter narrows catalog listings. Zero values mean "no filter".
type MovieFilter struct {
	Category string
	Genre    string
	Year     int
	Search   string
	Page     int
	Limit    int
}

type CategoryCount struct {
	Category string `json:"category" example:"film"`
	Count    int64  `json:"count" example:"42"`
}

type CatalogStats struct {
	TotalItems    int64           `json:"totalItems" example:"100"`
	AverageRating float64         `json:"averageRating" example:"7.5"`
	ByCategory    []CategoryCount `json:"byCategory"`
	TopRated      []Movie         `json:"topRated"`
	RecentlyAdded []Movie         `json:"recentlyAdded"`
}
