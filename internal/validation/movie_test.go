package validation

import (
	"testing"

	"movieflix-backend/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func validFilm() MovieInput {
	return MovieInput{
		Title:       "The Dark Knight",
		Description: "Batman raises the stakes in his war on crime.",
		Year:        2008,
		Rating:      floatPtr(9.0),
		Duration:    "2h 32m",
		Director:    "Christopher Nolan",
		Image:       "https://example.com/dark-knight.jpg",
		Genres:      []string{"Action", "Crime", "Drama"},
		Category:    "film",
	}
}

func TestValidateMovie_ValidFilm(t *testing.T) {
	res := ValidateMovie(validFilm())

	assert.True(t, res.Valid())
	assert.Empty(t, res.Message)
	assert.NoError(t, res.Err())
}

func TestValidateMovie_ValidSeries(t *testing.T) {
	in := validFilm()
	in.Category = "series"
	in.Duration = ""
	in.Seasons = intPtr(5)

	assert.True(t, ValidateMovie(in).Valid())
}

func TestValidateMovie_ZeroRatingIsAllowed(t *testing.T) {
	in := validFilm()
	in.Rating = floatPtr(0)

	assert.True(t, ValidateMovie(in).Valid())
}

func TestValidateMovie_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MovieInput)
		want   string
	}{
		{"missing title", func(m *MovieInput) { m.Title = "   " }, "Title must be 1-200 characters"},
		{"markup-only description", func(m *MovieInput) { m.Description = "<script>alert(1)</script>" }, "Description must be 1-2000 characters"},
		{"year too old", func(m *MovieInput) { m.Year = 1899 }, "Year must be between 1900-2030"},
		{"year too new", func(m *MovieInput) { m.Year = 2031 }, "Year must be between 1900-2030"},
		{"rating missing", func(m *MovieInput) { m.Rating = nil }, "Rating must be between 0-10"},
		{"rating too high", func(m *MovieInput) { m.Rating = floatPtr(10.5) }, "Rating must be between 0-10"},
		{"bad image", func(m *MovieInput) { m.Image = "not a url" }, "Image must be a valid URL"},
		{"no genres", func(m *MovieInput) { m.Genres = nil }, "At least one genre is required"},
		{"unknown genre", func(m *MovieInput) { m.Genres = []string{"Action", "Telenovela"} }, "Unknown genre: Telenovela"},
		{"bad category", func(m *MovieInput) { m.Category = "podcast" }, "Invalid category"},
		{"film without duration", func(m *MovieInput) { m.Duration = "" }, "Duration is required for films"},
		{"series without seasons", func(m *MovieInput) {
			m.Category = "series"
			m.Seasons = nil
		}, "Series must have at least 1 season"},
		{"series with zero seasons", func(m *MovieInput) {
			m.Category = "series"
			m.Seasons = intPtr(0)
		}, "Series must have at least 1 season"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFilm()
			tt.mutate(&in)

			res := ValidateMovie(in)

			require.False(t, res.Valid())
			assert.Equal(t, tt.want, res.Message)
			assert.Contains(t, res.Errors, tt.want)
		})
	}
}

func TestValidateMovie_CollectsEveryViolation(t *testing.T) {
	in := validFilm()
	in.Title = ""
	in.Year = 1800
	in.Duration = ""

	res := ValidateMovie(in)

	assert.Equal(t, "Title must be 1-200 characters", res.Message)
	assert.Equal(t, []string{
		"Title must be 1-200 characters",
		"Year must be between 1900-2030",
		"Duration is required for films",
	}, res.Errors)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestValidateMovie_TrendingFollowsFilmSchema(t *testing.T) {
	in := validFilm()
	in.Category = "trending"
	in.Duration = ""
	in.Seasons = intPtr(2)

	res := ValidateMovie(in)

	assert.Equal(t, []string{"Duration is required for films"}, res.Errors)
}

func TestStruct_RequestMessages(t *testing.T) {
	res := Struct(SignupInput{Name: "J", Email: "nope", Password: "123"})

	assert.Equal(t, []string{
		"Name must be at least 2 characters long",
		"Please enter a valid email",
		"Password must be at least 6 characters long",
	}, res.Errors)

	res = Struct(WatchlistAddInput{Priority: "urgent"})
	assert.Equal(t, "Priority must be one of: low, medium, high", res.Message)

	res = Struct(RoleInput{Role: "owner"})
	assert.Equal(t, "Role must be one of: member, admin", res.Message)
}
