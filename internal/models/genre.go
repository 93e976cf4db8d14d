package models

import "time"

// GenreVocabulary is the closed set of genre tags a catalog item may carry.
var GenreVocabulary = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "History", "Horror",
	"Music", "Mystery", "Romance", "Sci-Fi", "Sport", "Thriller", "War", "Western",
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:30" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// IsKnownGenre reports whether name belongs to GenreVocabulary.
func IsKnownGenre(name string) bool {
	for _, g := range GenreVocabulary {
		if g == name {
			return true
		}
	}
	return false
}
