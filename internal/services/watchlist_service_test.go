package services

import (
	"context"
	"testing"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchlistFixture(t *testing.T) (WatchlistService, string) {
	t.Helper()
	movies := newMemMovieRepo()
	m := &models.Movie{Title: "Heat", Year: 1995, Category: models.CategoryFilm}
	require.NoError(t, movies.Create(context.Background(), m))
	return NewWatchlistService(newMemWatchlistRepo(), movies, nil, quietLogger()), m.ID
}

func TestWatchlist_AddRules(t *testing.T) {
	svc, movieID := newWatchlistFixture(t)
	ctx := context.Background()

	entry, err := svc.Add(ctx, "u1", movieID, validation.WatchlistAddInput{Notes: "<i>must</i> see"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, entry.Priority)
	assert.Equal(t, "must see", entry.Notes)
	assert.False(t, entry.Watched)
	require.NotNil(t, entry.Movie)

	_, err = svc.Add(ctx, "u1", movieID, validation.WatchlistAddInput{})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	_, err = svc.Add(ctx, "u1", "missing", validation.WatchlistAddInput{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Add(ctx, "u2", movieID, validation.WatchlistAddInput{Priority: "urgent"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	ok, err := svc.Contains(ctx, "u1", movieID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWatchlist_RemoveNonMemberIsNotFound(t *testing.T) {
	svc, movieID := newWatchlistFixture(t)
	ctx := context.Background()

	err := svc.Remove(ctx, "u1", movieID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Add(ctx, "u1", movieID, validation.WatchlistAddInput{})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "u1", movieID))

	ok, _ := svc.Contains(ctx, "u1", movieID)
	assert.False(t, ok)
}

func TestWatchlist_RatingForcesWatched(t *testing.T) {
	svc, movieID := newWatchlistFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", movieID, validation.WatchlistAddInput{Priority: models.PriorityHigh})
	require.NoError(t, err)

	notes := "rewatch"
	entry, err := svc.Update(ctx, "u1", movieID, validation.WatchlistUpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.False(t, entry.Watched)
	assert.Equal(t, models.PriorityHigh, entry.Priority)

	entry, err = svc.Update(ctx, "u1", movieID, validation.WatchlistUpdateInput{Rating: floatPtr(0)})
	require.NoError(t, err)
	assert.True(t, entry.Watched)
	require.NotNil(t, entry.Rating)
	assert.Equal(t, 0.0, *entry.Rating)

	_, err = svc.Update(ctx, "u1", movieID, validation.WatchlistUpdateInput{Rating: floatPtr(11)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Update(ctx, "u9", movieID, validation.WatchlistUpdateInput{Notes: &notes})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestWatchlist_MarkWatched(t *testing.T) {
	svc, movieID := newWatchlistFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", movieID, validation.WatchlistAddInput{})
	require.NoError(t, err)

	entry, err := svc.MarkWatched(ctx, "u1", movieID, nil)
	require.NoError(t, err)
	assert.True(t, entry.Watched)
	assert.Nil(t, entry.Rating)

	watched, err := svc.List(ctx, "u1", models.WatchlistQuery{Watched: true})
	require.NoError(t, err)
	assert.Len(t, watched, 1)

	unwatched, err := svc.List(ctx, "u1", models.WatchlistQuery{})
	require.NoError(t, err)
	assert.Empty(t, unwatched)
}
