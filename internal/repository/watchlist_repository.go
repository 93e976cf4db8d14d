package repository

import (
	"context"
	"errors"
	"time"

	"movieflix-backend/internal/database"
	"movieflix-backend/internal/models"

	"gorm.io/gorm"
)

// watchlistSortColumns maps the accepted sort keys onto columns.
var watchlistSortColumns = map[string]string{
	"addedAt":   "added_at",
	"priority":  "priority",
	"rating":    "rating",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type WatchlistRepository interface {
	Create(ctx context.Context, entry *models.WatchlistEntry) error
	Update(ctx context.Context, entry *models.WatchlistEntry) error
	// Delete reports whether an entry existed for the pair.
	Delete(ctx context.Context, userID, movieID string) (bool, error)
	Find(ctx context.Context, userID, movieID string) (*models.WatchlistEntry, error)
	FindByUser(ctx context.Context, userID string, q models.WatchlistQuery) ([]models.WatchlistEntry, error)
	Exists(ctx context.Context, userID, movieID string) (bool, error)
}

type watchlistRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewWatchlistRepository(db *database.Database) WatchlistRepository {
	return &watchlistRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *watchlistRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *watchlistRepository) Create(ctx context.Context, entry *models.WatchlistEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Omit("Movie").Create(entry).Error)
}

func (r *watchlistRepository) Update(ctx context.Context, entry *models.WatchlistEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Omit("Movie").Save(entry).Error
}

func (r *watchlistRepository) Delete(ctx context.Context, userID, movieID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.WatchlistEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *watchlistRepository) Find(ctx context.Context, userID, movieID string) (*models.WatchlistEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entry models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Preload("Movie.Genres").
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// FindByUser lists one user's entries filtered by watched state, sorted
// descending on the requested key.
func (r *watchlistRepository) FindByUser(ctx context.Context, userID string, q models.WatchlistQuery) ([]models.WatchlistEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	column, ok := watchlistSortColumns[q.SortBy]
	if !ok {
		column = "added_at"
	}

	var entries []models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Preload("Movie.Genres").
		Where("user_id = ? AND watched = ?", userID, q.Watched).
		Order(column + " DESC").
		Order("id ASC").
		Offset(q.Skip).
		Limit(q.Limit).
		Find(&entries).Error
	return entries, err
}

func (r *watchlistRepository) Exists(ctx context.Context, userID, movieID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}
