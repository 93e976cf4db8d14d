package handlers

import (
	"time"

	"movieflix-backend/internal/models"
)

// MovieResponse is a catalog item as the API renders it.
type MovieResponse struct {
	ID                string    `json:"id" example:"5b0e0d4e-8f7c-4c0a-9a43-3d1c7d3b2f10"`
	Title             string    `json:"title" example:"The Dark Knight"`
	Description       string    `json:"description"`
	Year              int       `json:"year" example:"2008"`
	Rating            float64   `json:"rating" example:"9"`
	Duration          *string   `json:"duration,omitempty" example:"2h 32m"`
	Seasons           *int      `json:"seasons,omitempty"`
	FormattedDuration string    `json:"formattedDuration" example:"2h 32m"`
	Director          string    `json:"director" example:"Christopher Nolan"`
	Image             string    `json:"image"`
	Genres            []string  `json:"genre" example:"Action,Crime"`
	Category          string    `json:"category" example:"film"`
	CreatedBy         string    `json:"createdBy"`
	UpdatedBy         *string   `json:"updatedBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func NewMovieResponse(m *models.Movie) MovieResponse {
	return MovieResponse{
		ID:                m.ID,
		Title:             m.Title,
		Description:       m.Description,
		Year:              m.Year,
		Rating:            m.Rating,
		Duration:          m.Duration,
		Seasons:           m.Seasons,
		FormattedDuration: m.FormattedDuration(),
		Director:          m.Director,
		Image:             m.Image,
		Genres:            m.GenreNames(),
		Category:          m.Category,
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func NewMovieResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, NewMovieResponse(&movies[i]))
	}
	return out
}

type WatchlistEntryResponse struct {
	ID        string         `json:"id"`
	MovieID   string         `json:"movieId"`
	Movie     *MovieResponse `json:"movie,omitempty"`
	AddedAt   time.Time      `json:"addedAt"`
	Notes     string         `json:"notes"`
	Priority  string         `json:"priority" example:"medium"`
	Watched   bool           `json:"watched"`
	Rating    *float64       `json:"rating,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func NewWatchlistEntryResponse(e *models.WatchlistEntry) WatchlistEntryResponse {
	resp := WatchlistEntryResponse{
		ID:        e.ID,
		MovieID:   e.MovieID,
		AddedAt:   e.AddedAt,
		Notes:     e.Notes,
		Priority:  e.Priority,
		Watched:   e.Watched,
		Rating:    e.Rating,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Movie != nil {
		movie := NewMovieResponse(e.Movie)
		resp.Movie = &movie
	}
	return resp
}

func NewWatchlistEntryResponses(entries []models.WatchlistEntry) []WatchlistEntryResponse {
	out := make([]WatchlistEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewWatchlistEntryResponse(&entries[i]))
	}
	return out
}

type CatalogStatsResponse struct {
	TotalItems    int64                  `json:"totalItems"`
	AverageRating float64                `json:"averageRating"`
	ByCategory    []models.CategoryCount `json:"byCategory"`
	TopRated      []MovieResponse        `json:"topRated"`
	RecentlyAdded []MovieResponse        `json:"recentlyAdded"`
}

type AdminStatsResponse struct {
	TotalUsers          int64                `json:"totalUsers"`
	Admins              int64                `json:"admins"`
	Members             int64                `json:"members"`
	LatestUsers         []models.User        `json:"latestUsers"`
	RecentRegistrations int64                `json:"recentRegistrations"`
	ActiveUsers         int64                `json:"activeUsers"`
	Catalog             CatalogStatsResponse `json:"catalog"`
}

func NewAdminStatsResponse(s *models.AdminStats) AdminStatsResponse {
	return AdminStatsResponse{
		TotalUsers:          s.TotalUsers,
		Admins:              s.Admins,
		Members:             s.Members,
		LatestUsers:         s.LatestUsers,
		RecentRegistrations: s.RecentRegistrations,
		ActiveUsers:         s.ActiveUsers,
		Catalog: CatalogStatsResponse{
			TotalItems:    s.Catalog.TotalItems,
			AverageRating: s.Catalog.AverageRating,
			ByCategory:    s.Catalog.ByCategory,
			TopRated:      NewMovieResponses(s.Catalog.TopRated),
			RecentlyAdded: NewMovieResponses(s.Catalog.RecentlyAdded),
		},
	}
}
