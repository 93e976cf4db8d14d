package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// WatchlistEntry links one user to one catalog item; the pair is unique.
type WatchlistEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie;index:idx_watchlist_user_added,priority:1" json:"userId"`
	MovieID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie" json:"movieId"`
	Movie     *Movie    `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE" json:"movie,omitempty"`
	AddedAt   time.Time `gorm:"not null;<-:create;index:idx_watchlist_user_added,priority:2,sort:desc" json:"addedAt"`
	Notes     string    `gorm:"size:500" json:"notes,omitempty"`
	Priority  string    `gorm:"not null;size:10;default:medium" json:"priority" example:"medium"`
	Watched   bool      `gorm:"not null;default:false;index" json:"watched"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}

func (w *WatchlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.AddedAt.IsZero() {
		w.AddedAt = time.Now().UTC()
	}
	if w.Priority == "" {
		w.Priority = PriorityMedium
	}
	return nil
}

// SetRating records a personal rating. Rating an item always marks it watched;
// clearing the rating later does not unmark it.
func (w *WatchlistEntry) SetRating(rating float64) {
	w.Rating = &rating
	w.Watched = true
}

// WatchlistQuery mirrors the GET /watchlist query string.
type WatchlistQuery struct {
	Watched bool
	Limit   int
	Skip    int
	SortBy  string
}

// WatchlistUpdate carries the optional fields of PUT /watchlist/{itemId}.
type WatchlistUpdate struct {
	Notes    *string
	Priority *string
	Rating   *float64
}
