package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"movieflix-backend/internal/database"
	"movieflix-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchVector = "to_tsvector('english', movies.title || ' ' || movies.description)"

type MovieRepository interface {
	// CRUD operations
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Movie, error)
	FindDuplicate(ctx context.Context, title string, year int, excludeID string) (*models.Movie, error)

	// Query operations
	FindAll(ctx context.Context, filter models.MovieFilter) ([]models.Movie, int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.Movie, error)
	FindByCategory(ctx context.Context, category string, page, pageSize int) ([]models.Movie, int64, error)

	// Dashboard operations
	GetCatalogStats(ctx context.Context) (*models.CatalogStats, error)
}

type movieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(movie).Error)
}

// Update saves every column and replaces the genre set.
func (r *movieRepository) Update(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres").Save(movie).Error; err != nil {
			return err
		}
		return tx.Model(movie).Association("Genres").Replace(movie.Genres)
	})
	return translate(err)
}

func (r *movieRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movie := &models.Movie{ID: id}
		if err := tx.Model(movie).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(movie).Error
	})
}

func (r *movieRepository) FindByID(ctx context.Context, id string) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).Preload("Genres").Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// FindDuplicate returns another item sharing (title, year), ignoring excludeID.
func (r *movieRepository) FindDuplicate(ctx context.Context, title string, year int, excludeID string) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Where("title = ? AND year = ?", title, year)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var movie models.Movie
	if err := query.First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, filter models.MovieFilter) ([]models.Movie, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Movie{})

	if filter.Category != "" {
		query = query.Where("movies.category = ?", filter.Category)
	}
	if filter.Year > 0 {
		query = query.Where("movies.year = ?", filter.Year)
	}
	if filter.Genre != "" {
		genreIDs := r.db.WithContext(ctx).
			Table("movie_genres").
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.name = ?", filter.Genre)
		query = query.Where("movies.id IN (?)", genreIDs)
	}

	search := strings.TrimSpace(filter.Search)
	if search != "" {
		query = query.Where(searchVector+" @@ plainto_tsquery('english', ?)", search)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if search != "" {
		query = query.Order(rankOrder(search))
	} else {
		query = query.Order("movies.created_at DESC").Order("movies.id ASC")
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Genres").Offset(offset).Limit(filter.Limit).Find(&movies).Error; err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// Search ranks matches by relevance, then newest first, then id for a stable order.
func (r *movieRepository) Search(ctx context.Context, q string, limit int) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	q = strings.TrimSpace(q)
	if q == "" {
		return movies, nil
	}

	err := r.db.WithContext(ctx).
		Where(searchVector+" @@ plainto_tsquery('english', ?)", q).
		Order(rankOrder(q)).
		Preload("Genres").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) FindByCategory(ctx context.Context, category string, page, pageSize int) ([]models.Movie, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Movie{}).Where("category = ?", category)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if int64(offset) >= total {
		return []models.Movie{}, total, nil
	}

	err := query.Order("created_at DESC").Order("id ASC").
		Preload("Genres").
		Offset(offset).
		Limit(pageSize).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func (r *movieRepository) GetCatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	stats := &models.CatalogStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Movie{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	var avg struct{ Value float64 }
	if err := db.Model(&models.Movie{}).Select("COALESCE(AVG(rating), 0) AS value").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AverageRating = avg.Value

	if err := db.Model(&models.Movie{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Genres").Order("rating DESC").Order("id ASC").Limit(5).Find(&stats.TopRated).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Genres").Order("created_at DESC").Order("id ASC").Limit(5).Find(&stats.RecentlyAdded).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func rankOrder(q string) clause.OrderBy {
	return clause.OrderBy{
		Expression: clause.Expr{
			SQL:                "ts_rank(" + searchVector + ", plainto_tsquery('english', ?)) DESC, movies.created_at DESC, movies.id ASC",
			Vars:               []interface{}{q},
			WithoutParentheses: true,
		},
	}
}
