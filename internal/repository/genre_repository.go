package repository

import (
	"context"
	"time"

	"movieflix-backend/internal/database"
	"movieflix-backend/internal/models"
)

type GenreRepository interface {
	FindOrCreateByNames(ctx context.Context, names []string) ([]models.Genre, error)
	FindAll(ctx context.Context) ([]models.Genre, error)
}

type genreRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *genreRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// FindOrCreateByNames returns one row per name, in the order given.
func (r *genreRepository) FindOrCreateByNames(ctx context.Context, names []string) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	genres := make([]models.Genre, 0, len(names))
	for _, name := range names {
		var genre models.Genre
		err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&genre, models.Genre{Name: name}).Error
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.Genre
	err := r.db.WithContext(ctx).Order("name").Find(&genres).Error
	return genres, err
}
