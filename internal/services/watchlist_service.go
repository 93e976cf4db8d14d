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
	msgAlreadyListed = "Movie is already in your watchlist"
	msgNotListed     = "Movie not found in your watchlist"

	defaultWatchlistLimit = 50
	maxWatchlistLimit     = 200
)

type WatchlistService interface {
	List(ctx context.Context, userID string, q models.WatchlistQuery) ([]models.WatchlistEntry, error)
	Add(ctx context.Context, userID, movieID string, in validation.WatchlistAddInput) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID, movieID string) error
	Update(ctx context.Context, userID, movieID string, in validation.WatchlistUpdateInput) (*models.WatchlistEntry, error)
	MarkWatched(ctx context.Context, userID, movieID string, rating *float64) (*models.WatchlistEntry, error)
	Contains(ctx context.Context, userID, movieID string) (bool, error)
}

type watchlistService struct {
	repo    repository.WatchlistRepository
	movies  repository.MovieRepository
	counter MutationCounter
	logger  *logrus.Logger
}

func NewWatchlistService(repo repository.WatchlistRepository, movies repository.MovieRepository, counter MutationCounter, logger *logrus.Logger) WatchlistService {
	return &watchlistService{
		repo:    repo,
		movies:  movies,
		counter: counterOrNoop(counter),
		logger:  logger,
	}
}

func (s *watchlistService) List(ctx context.Context, userID string, q models.WatchlistQuery) ([]models.WatchlistEntry, error) {
	if q.Limit < 1 {
		q.Limit = defaultWatchlistLimit
	}
	if q.Limit > maxWatchlistLimit {
		q.Limit = maxWatchlistLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	entries, err := s.repo.FindByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}

func (s *watchlistService) Add(ctx context.Context, userID, movieID string, in validation.WatchlistAddInput) (*models.WatchlistEntry, error) {
	in.Normalize()
	if err := validation.Struct(in).Err(); err != nil {
		return nil, err
	}

	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound(msgMovieNotFound)
	}

	exists, err := s.repo.Exists(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check watchlist: %w", err)
	}
	if exists {
		return nil, apperror.Duplicate(msgAlreadyListed)
	}

	entry := &models.WatchlistEntry{
		UserID:   userID,
		MovieID:  movieID,
		Notes:    in.Notes,
		Priority: in.Priority,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Duplicate(msgAlreadyListed)
		}
		return nil, fmt.Errorf("add to watchlist: %w", err)
	}
	entry.Movie = movie

	s.counter.RecordWatchlistChange("add")
	return entry, nil
}

func (s *watchlistService) Remove(ctx context.Context, userID, movieID string) error {
	removed, err := s.repo.Delete(ctx, userID, movieID)
	if err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	if !removed {
		return apperror.NotFound(msgNotListed)
	}

	s.counter.RecordWatchlistChange("remove")
	return nil
}

// Update applies the provided fields. A rating always marks the entry watched.
func (s *watchlistService) Update(ctx context.Context, userID, movieID string, in validation.WatchlistUpdateInput) (*models.WatchlistEntry, error) {
	in.Normalize()
	if err := validation.Struct(in).Err(); err != nil {
		return nil, err
	}

	entry, err := s.find(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	if in.Notes != nil {
		entry.Notes = *in.Notes
	}
	if in.Priority != nil {
		entry.Priority = *in.Priority
	}
	if in.Rating != nil {
		entry.SetRating(*in.Rating)
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update watchlist entry: %w", err)
	}

	s.counter.RecordWatchlistChange("update")
	return entry, nil
}

func (s *watchlistService) MarkWatched(ctx context.Context, userID, movieID string, rating *float64) (*models.WatchlistEntry, error) {
	if err := validation.Struct(validation.WatchedInput{Rating: rating}).Err(); err != nil {
		return nil, err
	}

	entry, err := s.find(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	entry.Watched = true
	if rating != nil {
		entry.SetRating(*rating)
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("mark watched: %w", err)
	}

	s.counter.RecordWatchlistChange("watched")
	return entry, nil
}

func (s *watchlistService) Contains(ctx context.Context, userID, movieID string) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check watchlist: %w", err)
	}
	return ok, nil
}

func (s *watchlistService) find(ctx context.Context, userID, movieID string) (*models.WatchlistEntry, error) {
	entry, err := s.repo.Find(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("find watchlist entry: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound(msgNotListed)
	}
	return entry, nil
}
