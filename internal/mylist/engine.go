package mylist

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Action string

const (
	ActionNone    Action = "none"
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// SyncStatus says what happened on the server side of an operation.
type SyncStatus string

const (
	// SyncLocalOnly: no session, or no remote configured; nothing was sent.
	SyncLocalOnly SyncStatus = "local_only"
	SyncSynced    SyncStatus = "synced"
	// SyncFailed: the local change stands but the server call failed.
	SyncFailed SyncStatus = "sync_failed"
)

// Result is the outcome of Add, Remove and Toggle. RemoteErr holds the
// swallowed server error when Sync is SyncFailed.
type Result struct {
	Action    Action
	Sync      SyncStatus
	Changed   bool
	Entry     *Entry
	RemoteErr error
}

// Source says where Init took the list from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceEmpty  Source = "empty"
)

// Engine owns the shadow list. One mutex is held for the whole of every
// operation, network call included, so a toggle's presence check and its
// action cannot interleave with another call on the same engine.
type Engine struct {
	mu     sync.Mutex
	list   List
	store  LocalStore
	creds  Credentials
	remote Remote
	logger *logrus.Logger
	now    func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine starts with an empty list; call Init to load it. creds and
// remote may be nil for a purely local engine.
func NewEngine(store LocalStore, creds Credentials, remote Remote, logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		list:   EmptyList(),
		store:  store,
		creds:  creds,
		remote: remote,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init loads the list. With a session it takes the server's view wholesale and
// mirrors it locally; otherwise, or when the fetch fails, it reads the local
// store. It never fails: unreadable state yields an empty list.
func (e *Engine) Init(ctx context.Context) Source {
	e.mu.Lock()
	defer e.mu.Unlock()

	if token := e.token(); token != "" && e.remote != nil {
		entries, err := e.remote.Fetch(ctx, token)
		if err == nil {
			e.list = partition(entries)
			if err := e.store.Save(e.list); err != nil {
				e.logger.WithError(err).Warn("Failed to mirror server watchlist locally")
			}
			e.logger.WithField("entries", e.list.Len()).Debug("Watchlist loaded from server")
			return SourceRemote
		}
		e.logger.WithError(err).Warn("Failed to load watchlist from server, falling back to local copy")
	}

	list, err := e.store.Load()
	if err != nil {
		e.logger.WithError(err).Warn("Local watchlist unreadable, starting empty")
		e.list = EmptyList()
		return SourceEmpty
	}
	e.list = list
	if list.Len() == 0 {
		return SourceEmpty
	}
	return SourceLocal
}

// IsPresent reports whether id is in the kind's partition.
func (e *Engine) IsPresent(id interface{}, kind Kind) bool {
	norm, ok := NormalizeID(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	_, found := e.list.find(norm, kind)
	return found
}

// Add puts item on the list. Adding an item that is already present is a
// successful no-op.
func (e *Engine) Add(ctx context.Context, item Item, kind Kind) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.add(ctx, item, kind)
}

// Remove takes id off the list. The server is asked first; the local removal
// happens whatever it answers.
func (e *Engine) Remove(ctx context.Context, id interface{}, kind Kind) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remove(ctx, id, kind)
}

// Toggle removes item when present and adds it otherwise.
func (e *Engine) Toggle(ctx context.Context, item Item, kind Kind) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := NormalizeID(item.ID)
	if !ok {
		return Result{}, ErrInvalidItem
	}
	if _, found := e.list.find(id, kind); found {
		return e.remove(ctx, id, kind)
	}
	return e.add(ctx, item, kind)
}

// Snapshot returns a copy of the current list.
func (e *Engine) Snapshot() List {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.clone()
}

// Clear empties the local list without touching the server.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	empty := EmptyList()
	if err := e.store.Save(empty); err != nil {
		return fmt.Errorf("persist list: %w", err)
	}
	e.list = empty
	return nil
}

func (e *Engine) add(ctx context.Context, item Item, kind Kind) (Result, error) {
	if !kind.valid() {
		return Result{}, ErrInvalidKind
	}
	entry, err := NewEntry(item, kind, e.now())
	if err != nil {
		return Result{}, err
	}

	if existing, found := e.list.find(entry.ID, kind); found {
		return Result{Action: ActionNone, Sync: SyncLocalOnly, Entry: &existing}, nil
	}

	next := e.list.with(entry)
	if err := e.store.Save(next); err != nil {
		return Result{}, fmt.Errorf("persist list: %w", err)
	}

	res := Result{Action: ActionAdded, Sync: SyncLocalOnly, Changed: true}
	if token := e.token(); token != "" && e.remote != nil {
		remoteEntry, err := e.remote.Add(ctx, token, entry.ID)
		if err != nil {
			e.logger.WithError(err).WithField("id", entry.ID).Warn("Failed to add to server watchlist, keeping local change")
			res.Sync, res.RemoteErr = SyncFailed, err
		} else {
			res.Sync = SyncSynced
			entry.ServerItem = true
			entry.WatchlistID = remoteEntry.ID
			synced := next.replace(entry)
			if err := e.store.Save(synced); err != nil {
				e.logger.WithError(err).Warn("Failed to persist server confirmation")
			} else {
				next = synced
			}
		}
	}

	e.list = next
	res.Entry = &entry
	return res, nil
}

func (e *Engine) remove(ctx context.Context, id interface{}, kind Kind) (Result, error) {
	if !kind.valid() {
		return Result{}, ErrInvalidKind
	}
	norm, ok := NormalizeID(id)
	if !ok {
		return Result{}, ErrInvalidItem
	}

	res := Result{Action: ActionNone, Sync: SyncLocalOnly}
	if token := e.token(); token != "" && e.remote != nil {
		err := e.remote.Remove(ctx, token, norm)
		switch {
		case err == nil, IsRemoteStatus(err, http.StatusNotFound):
			res.Sync = SyncSynced
		default:
			e.logger.WithError(err).WithField("id", norm).Warn("Failed to remove from server watchlist, removing locally")
			res.Sync, res.RemoteErr = SyncFailed, err
		}
	}

	existing, found := e.list.find(norm, kind)
	if !found {
		return res, nil
	}

	next := e.list.without(norm, kind)
	if err := e.store.Save(next); err != nil {
		return res, fmt.Errorf("persist list: %w", err)
	}
	e.list = next

	res.Action = ActionRemoved
	res.Changed = true
	res.Entry = &existing
	return res, nil
}

func (e *Engine) token() string {
	if e.creds == nil {
		return ""
	}
	return e.creds.Token()
}

func partition(entries []RemoteEntry) List {
	list := EmptyList()
	for _, re := range entries {
		if re.Movie == nil {
			continue
		}
		m := re.Movie
		id, ok := NormalizeID(m.ID)
		if !ok {
			continue
		}
		kind := KindForCategory(m.Category)
		if _, dup := list.find(id, kind); dup {
			continue
		}

		entry := Entry{
			ID:          id,
			Kind:        kind,
			Title:       m.Title,
			Image:       m.Image,
			Synopsis:    m.Description,
			Score:       m.Rating,
			Genres:      append([]string{}, m.Genres...),
			AddedDate:   re.AddedAt.Format(dateLayout),
			ServerItem:  true,
			WatchlistID: re.ID,
		}
		if entry.Title == "" {
			entry.Title = defaultTitle
		}
		if m.Year > 0 {
			entry.ReleaseDate = strconv.Itoa(m.Year)
		}
		list = list.with(entry)
	}
	return list
}
