package mylist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// fakeAPI is a minimal watchlist server speaking the API envelope.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	failWith int
	entries  map[string]RemoteEntry
	auth     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{entries: map[string]RemoteEntry{}}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	write := func(code int, data interface{}, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		status := "success"
		if code >= 400 {
			status = "error"
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "code": code, "message": msg, "data": data})
	}

	if f.failWith != 0 {
		write(f.failWith, nil, "upstream unavailable")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/watchlist/")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/watchlist":
		out := []RemoteEntry{}
		if r.URL.Query().Get("watched") == "false" {
			for _, e := range f.entries {
				out = append(out, e)
			}
		}
		write(http.StatusOK, out, "ok")
	case r.Method == http.MethodPost:
		e := RemoteEntry{ID: "w-" + id, MovieID: id, Movie: &RemoteMovie{ID: id, Category: "film"}, AddedAt: fixedNow}
		f.entries[id] = e
		write(http.StatusCreated, e, "Added to watchlist")
	case r.Method == http.MethodDelete:
		if _, ok := f.entries[id]; !ok {
			write(http.StatusNotFound, nil, "Movie not found in your watchlist")
			return
		}
		delete(f.entries, id)
		write(http.StatusOK, map[string]bool{"removed": true}, "Removed from watchlist")
	default:
		write(http.StatusNotFound, nil, "no route")
	}
}

func (f *fakeAPI) fail(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = code
}

func (f *fakeAPI) seed(e RemoteEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[e.Movie.ID] = e
}

func (f *fakeAPI) recorded() (calls, auth []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...), append([]string{}, f.auth...)
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingStore struct {
	saves int
}

func (s *failingStore) Load() (List, error) { return EmptyList(), nil }
func (s *failingStore) Save(List) error {
	s.saves++
	return errors.New("disk full")
}

func newEngine(t *testing.T, token string) (*Engine, *fakeAPI, *FileStore) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := NewFileStore(filepath.Join(t.TempDir(), "mylist.json"))
	e := NewEngine(store, StaticToken(token), NewAPIClient(srv.URL, time.Second), quietLogger(), WithClock(func() time.Time { return fixedNow }))
	return e, api, store
}

func TestAdd_UnauthenticatedIsLocalOnly(t *testing.T) {
	e, api, store := newEngine(t, "")
	ctx := context.Background()

	res, err := e.Add(ctx, Item{ID: "m1", Title: "X"}, KindFilm)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, res.Action)
	assert.Equal(t, SyncLocalOnly, res.Sync)
	assert.True(t, res.Changed)

	assert.True(t, e.IsPresent("m1", KindFilm))
	assert.False(t, e.IsPresent("m1", KindSeries))
	assert.Zero(t, api.callCount())

	persisted, err := store.Load()
	require.NoError(t, err)
	require.Len(t, persisted.Films, 1)
	assert.Equal(t, "X", persisted.Films[0].Title)
	assert.False(t, persisted.Films[0].ServerItem)
}

func TestAdd_FillsDefaults(t *testing.T) {
	e, _, _ := newEngine(t, "")

	res, err := e.Add(context.Background(), Item{ID: 42, Year: 1999}, KindFilm)
	require.NoError(t, err)

	got := *res.Entry
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "Untitled", got.Title)
	assert.Equal(t, "", got.Image)
	assert.Equal(t, "", got.Synopsis)
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, "1999", got.ReleaseDate)
	assert.Equal(t, "2026-03-14", got.AddedDate)
	assert.Equal(t, KindFilm, got.Kind)
	assert.NotNil(t, got.Genres)
}

func TestAdd_IsIdempotentAcrossIDTypes(t *testing.T) {
	e, _, _ := newEngine(t, "")
	ctx := context.Background()

	_, err := e.Add(ctx, Item{ID: 7, Title: "Seven"}, KindFilm)
	require.NoError(t, err)

	res, err := e.Add(ctx, Item{ID: "7", Title: "Seven again"}, KindFilm)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.False(t, res.Changed)
	assert.Equal(t, "Seven", res.Entry.Title)

	res, err = e.Add(ctx, Item{ID: 7.0}, KindFilm)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	assert.Len(t, e.Snapshot().Films, 1)
}

func TestAdd_RejectsMissingID(t *testing.T) {
	e, _, _ := newEngine(t, "")

	_, err := e.Add(context.Background(), Item{Title: "No id"}, KindFilm)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = e.Add(context.Background(), Item{ID: "  "}, KindFilm)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = e.Add(context.Background(), Item{ID: "m1"}, Kind("podcast"))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	e, _, _ := newEngine(t, "")
	ctx := context.Background()
	item := Item{ID: "s1", Title: "Dark"}

	res, err := e.Toggle(ctx, item, KindSeries)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, res.Action)
	assert.True(t, e.IsPresent("s1", KindSeries))

	res, err = e.Toggle(ctx, item, KindSeries)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, res.Action)
	assert.False(t, e.IsPresent("s1", KindSeries))
	assert.Equal(t, 0, e.Snapshot().Len())
}

func TestAdd_AuthenticatedSyncs(t *testing.T) {
	e, api, store := newEngine(t, "tok")

	res, err := e.Add(context.Background(), Item{ID: "m1", Title: "Heat"}, KindFilm)
	require.NoError(t, err)
	assert.Equal(t, SyncSynced, res.Sync)
	assert.True(t, res.Entry.ServerItem)
	assert.Equal(t, "w-m1", res.Entry.WatchlistID)

	calls, auth := api.recorded()
	assert.Equal(t, []string{"POST /api/v1/watchlist/m1"}, calls)
	assert.Equal(t, "Bearer tok", auth[0])

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.True(t, persisted.Films[0].ServerItem)
}

func TestAdd_RemoteFailureKeepsLocalChange(t *testing.T) {
	e, api, store := newEngine(t, "tok")
	api.fail(http.StatusInternalServerError)

	res, err := e.Add(context.Background(), Item{ID: "m1"}, KindFilm)
	require.NoError(t, err)
	assert.Equal(t, SyncFailed, res.Sync)
	require.Error(t, res.RemoteErr)
	assert.True(t, IsRemoteStatus(res.RemoteErr, 500))
	assert.True(t, e.IsPresent("m1", KindFilm))

	persisted, err := store.Load()
	require.NoError(t, err)
	require.Len(t, persisted.Films, 1)
	assert.False(t, persisted.Films[0].ServerItem)
}

func TestAdd_LocalPersistFailureLeavesStateUntouched(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	defer srv.Close()

	e := NewEngine(&failingStore{}, StaticToken("tok"), NewAPIClient(srv.URL, time.Second), quietLogger())

	_, err := e.Add(context.Background(), Item{ID: "m1"}, KindFilm)
	require.Error(t, err)
	assert.False(t, e.IsPresent("m1", KindFilm))
	assert.Zero(t, api.callCount())
}

func TestRemove_RemoteFirstThenLocal(t *testing.T) {
	e, api, _ := newEngine(t, "tok")
	ctx := context.Background()

	_, err := e.Add(ctx, Item{ID: "m1"}, KindFilm)
	require.NoError(t, err)

	res, err := e.Remove(ctx, "m1", KindFilm)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, res.Action)
	assert.Equal(t, SyncSynced, res.Sync)
	calls, _ := api.recorded()
	assert.Equal(t, "DELETE /api/v1/watchlist/m1", calls[len(calls)-1])

	res, err = e.Remove(ctx, "m1", KindFilm)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, SyncSynced, res.Sync)
}

func TestRemove_RemoteFailureStillRemovesLocally(t *testing.T) {
	e, api, store := newEngine(t, "tok")
	ctx := context.Background()

	_, err := e.Add(ctx, Item{ID: "m1"}, KindFilm)
	require.NoError(t, err)

	api.fail(http.StatusBadGateway)
	res, err := e.Remove(ctx, "m1", KindFilm)
	require.NoError(t, err)
	assert.Equal(t, SyncFailed, res.Sync)
	assert.Equal(t, ActionRemoved, res.Action)
	assert.False(t, e.IsPresent("m1", KindFilm))

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted.Films)
}

func TestInit_RemotePartitionsByCategory(t *testing.T) {
	e, api, store := newEngine(t, "tok")
	api.seed(RemoteEntry{ID: "w1", Movie: &RemoteMovie{ID: "m1", Title: "Heat", Category: "film", Year: 1995}, AddedAt: fixedNow})
	api.seed(RemoteEntry{ID: "w2", Movie: &RemoteMovie{ID: "m2", Title: "Alien", Category: "trending"}, AddedAt: fixedNow})
	api.seed(RemoteEntry{ID: "w3", Movie: &RemoteMovie{ID: "s1", Title: "Dark", Category: "series"}, AddedAt: fixedNow})

	require.NoError(t, store.Save(List{Films: []Entry{{ID: "stale", Kind: KindFilm}}}))

	assert.Equal(t, SourceRemote, e.Init(context.Background()))

	list := e.Snapshot()
	assert.Len(t, list.Films, 2)
	require.Len(t, list.Series, 1)
	assert.Equal(t, "Dark", list.Series[0].Title)
	assert.True(t, list.Series[0].ServerItem)
	assert.Equal(t, "w3", list.Series[0].WatchlistID)
	assert.Equal(t, "2026-03-14", list.Series[0].AddedDate)
	assert.False(t, e.IsPresent("stale", KindFilm))

	mirrored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, mirrored.Len())
}

func TestInit_FallsBackToLocal(t *testing.T) {
	e, api, store := newEngine(t, "tok")
	api.fail(http.StatusUnauthorized)
	require.NoError(t, store.Save(List{Series: []Entry{{ID: "s9", Kind: KindSeries, Title: "Local"}}}))

	assert.Equal(t, SourceLocal, e.Init(context.Background()))
	assert.True(t, e.IsPresent("s9", KindSeries))
	assert.NotNil(t, e.Snapshot().Films)
}

func TestInit_UnparseableLocalIsEmpty(t *testing.T) {
	e, api, store := newEngine(t, "")
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	assert.Equal(t, SourceEmpty, e.Init(context.Background()))
	list := e.Snapshot()
	assert.NotNil(t, list.Films)
	assert.NotNil(t, list.Series)
	assert.Zero(t, list.Len())
	assert.Zero(t, api.callCount())
}

func TestFileStore_Layout(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "mylist.json"))

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	require.NoError(t, store.Save(List{Films: []Entry{{ID: "m1", Kind: KindFilm, Title: "Heat"}}}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var blob map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &blob))
	assert.Contains(t, blob, "films")
	assert.Contains(t, blob, "series")
	assert.Equal(t, "m1", blob["films"][0]["id"])
	assert.Empty(t, blob["series"])
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
		ok   bool
	}{
		{"abc", "abc", true},
		{" 12 ", "12", true},
		{12, "12", true},
		{int64(12), "12", true},
		{12.0, "12", true},
		{12.5, "12.5", true},
		{json.Number("12"), "12", true},
		{nil, "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeID(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("tv")
	require.NoError(t, err)
	assert.Equal(t, KindSeries, k)

	k, err = ParseKind("movie")
	require.NoError(t, err)
	assert.Equal(t, KindFilm, k)

	_, err = ParseKind("podcast")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestTokenFile(t *testing.T) {
	tf := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	assert.Equal(t, "", tf.Token())

	require.NoError(t, tf.Save("abc"))
	assert.Equal(t, "abc", tf.Token())

	require.NoError(t, tf.Clear())
	require.NoError(t, tf.Clear())
	assert.Equal(t, "", tf.Token())
}

func TestClear_EmptiesLocalOnly(t *testing.T) {
	e, api, store := newEngine(t, "tok")
	ctx := context.Background()

	_, err := e.Add(ctx, Item{ID: "m1"}, KindFilm)
	require.NoError(t, err)
	before := api.callCount()

	require.NoError(t, e.Clear())
	assert.Equal(t, 0, e.Snapshot().Len())
	assert.Equal(t, before, api.callCount())

	onDisk, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, onDisk.Len())
}
