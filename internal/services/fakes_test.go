package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"movieflix-backend/internal/models"
	"movieflix-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memMovieRepo enforces the (title, year) unique index like the real table.
type memMovieRepo struct {
	mu     sync.Mutex
	movies map[string]models.Movie
	clock  time.Time

	createErr error
}

func newMemMovieRepo() *memMovieRepo {
	return &memMovieRepo{
		movies: map[string]models.Movie{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memMovieRepo) conflict(m *models.Movie) bool {
	for id, other := range r.movies {
		if id != m.ID && other.Title == m.Title && other.Year == m.Year {
			return true
		}
	}
	return false
}

func (r *memMovieRepo) Create(_ context.Context, m *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if r.conflict(m) {
		return fmt.Errorf("%w: idx_movies_title_year", repository.ErrDuplicate)
	}
	r.clock = r.clock.Add(time.Minute)
	m.CreatedAt = r.clock
	r.movies[m.ID] = *m
	return nil
}

func (r *memMovieRepo) Update(_ context.Context, m *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflict(m) {
		return fmt.Errorf("%w: idx_movies_title_year", repository.ErrDuplicate)
	}
	r.movies[m.ID] = *m
	return nil
}

func (r *memMovieRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.movies, id)
	return nil
}

func (r *memMovieRepo) FindByID(_ context.Context, id string) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMovieRepo) FindDuplicate(_ context.Context, title string, year int, excludeID string) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.movies {
		if id != excludeID && m.Title == title && m.Year == year {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memMovieRepo) sorted(category string) []models.Movie {
	var out []models.Movie
	for _, m := range r.movies {
		if category == "" || m.Category == category {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memMovieRepo) FindAll(_ context.Context, f models.MovieFilter) ([]models.Movie, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(f.Category)
	return page(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *memMovieRepo) Search(context.Context, string, int) ([]models.Movie, error) {
	return nil, nil
}

func (r *memMovieRepo) FindByCategory(_ context.Context, category string, p, size int) ([]models.Movie, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(category)
	return page(all, p, size), int64(len(all)), nil
}

func (r *memMovieRepo) GetCatalogStats(context.Context) (*models.CatalogStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.CatalogStats{TotalItems: int64(len(r.movies))}, nil
}

func page(all []models.Movie, p, size int) []models.Movie {
	start := (p - 1) * size
	if start >= len(all) {
		return []models.Movie{}
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

type memGenreRepo struct{}

func (memGenreRepo) FindOrCreateByNames(_ context.Context, names []string) ([]models.Genre, error) {
	out := make([]models.Genre, 0, len(names))
	for i, n := range names {
		out = append(out, models.Genre{ID: uint(i + 1), Name: n})
	}
	return out, nil
}

func (memGenreRepo) FindAll(context.Context) ([]models.Genre, error) {
	return []models.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}}, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	// deletedWatchlists records user ids whose watchlist was cleared.
	deletedWatchlists []string
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	r := &memUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Email == u.Email {
			return fmt.Errorf("%w: users_email", repository.ErrDuplicate)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	r.deletedWatchlists = append(r.deletedWatchlists, id)
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindAll(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.LastLoginAt = &at
	r.users[id] = u
	return nil
}

func (r *memUserRepo) GetUserStats(context.Context, time.Time) (*models.AdminStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.AdminStats{TotalUsers: int64(len(r.users))}
	for _, u := range r.users {
		if u.IsAdmin() {
			stats.Admins++
		} else {
			stats.Members++
		}
	}
	return stats, nil
}

type memWatchlistRepo struct {
	mu      sync.Mutex
	entries map[string]models.WatchlistEntry
}

func newMemWatchlistRepo() *memWatchlistRepo {
	return &memWatchlistRepo{entries: map[string]models.WatchlistEntry{}}
}

func key(userID, movieID string) string { return userID + "/" + movieID }

func (r *memWatchlistRepo) Create(_ context.Context, e *models.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key(e.UserID, e.MovieID)]; ok {
		return fmt.Errorf("%w: idx_watchlist_user_movie", repository.ErrDuplicate)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Priority == "" {
		e.Priority = models.PriorityMedium
	}
	e.AddedAt = time.Now().UTC()
	r.entries[key(e.UserID, e.MovieID)] = *e
	return nil
}

func (r *memWatchlistRepo) Update(_ context.Context, e *models.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key(e.UserID, e.MovieID)] = *e
	return nil
}

func (r *memWatchlistRepo) Delete(_ context.Context, userID, movieID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(userID, movieID)
	_, ok := r.entries[k]
	delete(r.entries, k)
	return ok, nil
}

func (r *memWatchlistRepo) Find(_ context.Context, userID, movieID string) (*models.WatchlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key(userID, movieID)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *memWatchlistRepo) FindByUser(_ context.Context, userID string, q models.WatchlistQuery) ([]models.WatchlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WatchlistEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Watched == q.Watched {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memWatchlistRepo) Exists(_ context.Context, userID, movieID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key(userID, movieID)]
	return ok, nil
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *recordingAuditor) Record(e models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// FindRecent lets the auditor double as the audit trail reader.
func (a *recordingAuditor) FindRecent(_ context.Context, limit int) ([]models.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.AuditLog, 0, limit)
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.entries[i])
	}
	return out, nil
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, folder, filename, _ string) (string, string, error) {
	obj := ObjectName(folder, filename)
	return "https://upload.example.com/" + obj + "?sig=1", "https://cdn.example.com/" + obj, nil
}

func (s *fakeStorage) DeleteByURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}
