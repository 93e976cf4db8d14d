package services

import (
	"context"
	"errors"
	"fmt"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/repository"
	"movieflix-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

const (
	msgMovieNotFound  = "Movie not found"
	msgMovieDuplicate = "A movie with this title and year already exists"
	msgInvalidCat     = "Invalid category"
)

type MovieService interface {
	// CRUD operations
	CreateMovie(ctx context.Context, actor Actor, in validation.MovieInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, actor Actor, id string, in validation.MovieInput) (*models.Movie, error)
	DeleteMovie(ctx context.Context, actor Actor, id string) error
	GetMovieByID(ctx context.Context, id string) (*models.Movie, error)

	// Query operations
	GetAllMovies(ctx context.Context, filter models.MovieFilter) ([]models.Movie, int64, models.MovieFilter, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]models.Movie, error)
	ListByCategory(ctx context.Context, category string, page, pageSize int) ([]models.Movie, int64, error)
	FindDuplicate(ctx context.Context, title string, year int, excludeID string) (*models.Movie, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)

	// Dashboard operations
	GetCatalogStats(ctx context.Context) (*models.CatalogStats, error)
}

type movieService struct {
	repo      repository.MovieRepository
	genreRepo repository.GenreRepository
	storage   ObjectStorage
	auditor   Auditor
	counter   MutationCounter
	logger    *logrus.Logger
}

// NewMovieService wires the catalog. storage may be nil, in which case
// replaced poster objects are left in place.
func NewMovieService(repo repository.MovieRepository, genreRepo repository.GenreRepository, storage ObjectStorage, auditor Auditor, counter MutationCounter, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:      repo,
		genreRepo: genreRepo,
		storage:   storage,
		auditor:   auditor,
		counter:   counterOrNoop(counter),
		logger:    logger,
	}
}

func (s *movieService) CreateMovie(ctx context.Context, actor Actor, in validation.MovieInput) (*models.Movie, error) {
	in.Normalize()
	if err := validation.ValidateMovie(in).Err(); err != nil {
		return nil, err
	}

	dup, err := s.repo.FindDuplicate(ctx, in.Title, in.Year, "")
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup != nil {
		return nil, apperror.Duplicate(msgMovieDuplicate)
	}

	genres, err := s.genreRepo.FindOrCreateByNames(ctx, uniqueStrings(in.Genres))
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", err)
	}

	movie := &models.Movie{CreatedBy: actor.UserID}
	applyInput(movie, in)
	movie.Genres = genres

	if err := s.repo.Create(ctx, movie); err != nil {
		// Lost a race with a concurrent create of the same (title, year).
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Duplicate(msgMovieDuplicate)
		}
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.counter.RecordCatalogMutation("create")
	s.auditor.Record(auditEntry(actor, models.AuditCreateMovie, movie.ID, map[string]interface{}{
		"title":    movie.Title,
		"year":     movie.Year,
		"category": movie.Category,
	}))
	s.logger.WithFields(logrus.Fields{"id": movie.ID, "title": movie.Title}).Info("Movie created")

	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, actor Actor, id string, in validation.MovieInput) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound(msgMovieNotFound)
	}

	in.Normalize()
	if err := validation.ValidateMovie(in).Err(); err != nil {
		return nil, err
	}

	dup, err := s.repo.FindDuplicate(ctx, in.Title, in.Year, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup != nil {
		return nil, apperror.Duplicate(msgMovieDuplicate)
	}

	genres, err := s.genreRepo.FindOrCreateByNames(ctx, uniqueStrings(in.Genres))
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", err)
	}

	oldImage := movie.Image
	updatedBy := actor.UserID
	applyInput(movie, in)
	movie.Genres = genres
	movie.UpdatedBy = &updatedBy

	if err := s.repo.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Duplicate(msgMovieDuplicate)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	if oldImage != movie.Image {
		s.removeImage(ctx, oldImage)
	}

	s.counter.RecordCatalogMutation("update")
	s.auditor.Record(auditEntry(actor, models.AuditUpdateMovie, movie.ID, map[string]interface{}{
		"title":    movie.Title,
		"year":     movie.Year,
		"category": movie.Category,
	}))

	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, actor Actor, id string) error {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return apperror.NotFound(msgMovieNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	s.removeImage(ctx, movie.Image)

	s.counter.RecordCatalogMutation("delete")
	s.auditor.Record(auditEntry(actor, models.AuditDeleteMovie, movie.ID, map[string]interface{}{
		"title": movie.Title,
		"year":  movie.Year,
	}))

	return nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound(msgMovieNotFound)
	}
	return movie, nil
}

// GetAllMovies returns the filtered page together with the normalized filter.
func (s *movieService) GetAllMovies(ctx context.Context, filter models.MovieFilter) ([]models.Movie, int64, models.MovieFilter, error) {
	filter.Page, filter.Limit = clampPage(filter.Page, filter.Limit)

	if filter.Category != "" && !isCategory(filter.Category) {
		return nil, 0, filter, apperror.BadRequest(msgInvalidCat)
	}

	movies, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, filter, fmt.Errorf("list movies: %w", err)
	}
	return movies, total, filter, nil
}

func (s *movieService) SearchMovies(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	_, limit = clampPage(1, limit)
	movies, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return movies, nil
}

// ListByCategory pages through one category, newest first. Pages past the
// end come back empty.
func (s *movieService) ListByCategory(ctx context.Context, category string, page, pageSize int) ([]models.Movie, int64, error) {
	if !isCategory(category) {
		return nil, 0, apperror.BadRequest(msgInvalidCat)
	}
	page, pageSize = clampPage(page, pageSize)

	movies, total, err := s.repo.FindByCategory(ctx, category, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list category: %w", err)
	}
	return movies, total, nil
}

func (s *movieService) FindDuplicate(ctx context.Context, title string, year int, excludeID string) (*models.Movie, error) {
	return s.repo.FindDuplicate(ctx, title, year, excludeID)
}

// ListGenres returns the stored genre tags by name.
func (s *movieService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (s *movieService) GetCatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	stats, err := s.repo.GetCatalogStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	return stats, nil
}

func (s *movieService) removeImage(ctx context.Context, url string) {
	if s.storage == nil || url == "" {
		return
	}
	if err := s.storage.DeleteByURL(ctx, url); err != nil {
		s.logger.WithError(err).WithField("image", url).Warn("Failed to remove old poster")
	}
}

// applyInput copies a validated candidate onto movie, keeping exactly one of
// Seasons and Duration depending on the category.
func applyInput(movie *models.Movie, in validation.MovieInput) {
	movie.Title = in.Title
	movie.Description = in.Description
	movie.Year = in.Year
	movie.Rating = *in.Rating
	movie.Director = in.Director
	movie.Image = in.Image
	movie.Category = in.Category

	if in.Category == models.CategorySeries {
		seasons := *in.Seasons
		movie.Seasons = &seasons
		movie.Duration = nil
	} else {
		duration := in.Duration
		movie.Duration = &duration
		movie.Seasons = nil
	}
}

func isCategory(c string) bool {
	for _, known := range models.Categories {
		if c == known {
			return true
		}
	}
	return false
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
