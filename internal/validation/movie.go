package validation

import (
	"strings"

	"movieflix-backend/internal/models"
	"movieflix-backend/internal/utils"
)

// MovieInput is a catalog candidate as submitted on create and update.
type MovieInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=2000"`
	Year        int      `json:"year" validate:"min=1900,max=2030"`
	Rating      *float64 `json:"rating" validate:"required,min=0,max=10"`
	Duration    string   `json:"duration"`
	Seasons     *int     `json:"seasons"`
	Director    string   `json:"director" validate:"required,max=100"`
	Image       string   `json:"image" validate:"required,url"`
	Genres      []string `json:"genre" validate:"required,min=1,dive,genre"`
	Category    string   `json:"category" validate:"required,oneof=film trending series"`
}

// Normalize trims surrounding whitespace from every text field and strips
// markup from the description, so validation sees the stored value.
func (in *MovieInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = utils.CleanText(in.Description)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Director = strings.TrimSpace(in.Director)
	in.Image = strings.TrimSpace(in.Image)
	in.Category = strings.TrimSpace(in.Category)
	for i, g := range in.Genres {
		in.Genres[i] = strings.TrimSpace(g)
	}
}

// ValidateMovie applies the field rules and the category-conditional rule:
// series need seasons >= 1, everything else needs a duration label.
func ValidateMovie(in MovieInput) Result {
	in.Normalize()
	res := Struct(in)

	if in.Category == models.CategorySeries {
		if in.Seasons == nil || *in.Seasons < 1 {
			res.add("Series must have at least 1 season")
		}
	} else if in.Duration == "" {
		res.add("Duration is required for films")
	}
	return res
}
