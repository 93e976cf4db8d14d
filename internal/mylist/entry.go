// Package mylist keeps a local shadow of a user's watchlist and reconciles it
// with the API. Local state is committed first; remote sync is best effort.
package mylist

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	KindFilm   Kind = "film"
	KindSeries Kind = "series"
)

var (
	ErrInvalidItem = errors.New("mylist: item has no id")
	ErrInvalidKind = errors.New("mylist: kind must be film or series")
)

// ParseKind accepts "film"/"movie" and "series"/"tv".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "film", "movie", "":
		return KindFilm, nil
	case "series", "tv":
		return KindSeries, nil
	default:
		return "", ErrInvalidKind
	}
}

// KindForCategory maps a catalog category onto a shadow list bucket.
func KindForCategory(category string) Kind {
	if category == "series" {
		return KindSeries
	}
	return KindFilm
}

func (k Kind) valid() bool {
	return k == KindFilm || k == KindSeries
}

// Item is what callers hand to Add and Toggle. ID may be a string or any
// numeric type; it is compared in its canonical string form.
type Item struct {
	ID          interface{}
	Title       string
	Image       string
	Synopsis    string
	Score       float64
	ReleaseDate string
	Year        int
	Genres      []string
}

// NormalizeID returns the canonical string form of id. Integral floats lose
// their fraction so 42, 42.0 and "42" all match.
func NormalizeID(id interface{}) (string, bool) {
	var s string
	switch v := id.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case json.Number:
		s = v.String()
	case int:
		s = strconv.Itoa(v)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case int64:
		s = strconv.FormatInt(v, 10)
	case uint:
		s = strconv.FormatUint(uint64(v), 10)
	case uint32:
		s = strconv.FormatUint(uint64(v), 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			s = strconv.FormatFloat(v, 'f', 0, 64)
		} else {
			s = strconv.FormatFloat(v, 'f', -1, 64)
		}
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Entry is one shadow list record. Every display field is always populated.
type Entry struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"type"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Synopsis    string   `json:"synopsis"`
	Score       float64  `json:"score"`
	ReleaseDate string   `json:"releaseDate"`
	Genres      []string `json:"genre"`
	AddedDate   string   `json:"addedDate"`
	ServerItem  bool     `json:"serverItem"`
	WatchlistID string   `json:"watchlistId,omitempty"`
}

const (
	defaultTitle = "Untitled"
	dateLayout   = "2006-01-02"
)

// NewEntry builds a fully defaulted local entry.
func NewEntry(item Item, kind Kind, now time.Time) (Entry, error) {
	id, ok := NormalizeID(item.ID)
	if !ok {
		return Entry{}, ErrInvalidItem
	}
	if !kind.valid() {
		return Entry{}, ErrInvalidKind
	}

	e := Entry{
		ID:          id,
		Kind:        kind,
		Title:       strings.TrimSpace(item.Title),
		Image:       item.Image,
		Synopsis:    item.Synopsis,
		Score:       item.Score,
		ReleaseDate: item.ReleaseDate,
		Genres:      append([]string{}, item.Genres...),
		AddedDate:   now.Format(dateLayout),
	}
	if e.Title == "" {
		e.Title = defaultTitle
	}
	if e.ReleaseDate == "" && item.Year > 0 {
		e.ReleaseDate = strconv.Itoa(item.Year)
	}
	return e, nil
}

// List is the shadow list, partitioned by kind.
type List struct {
	Films  []Entry `json:"films"`
	Series []Entry `json:"series"`
}

// EmptyList returns a list with both partitions present.
func EmptyList() List {
	return List{Films: []Entry{}, Series: []Entry{}}
}

func (l List) entries(kind Kind) []Entry {
	if kind == KindSeries {
		return l.Series
	}
	return l.Films
}

func (l List) find(id string, kind Kind) (Entry, bool) {
	for _, e := range l.entries(kind) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len counts entries across both partitions.
func (l List) Len() int {
	return len(l.Films) + len(l.Series)
}

func (l List) clone() List {
	return List{
		Films:  append(make([]Entry, 0, len(l.Films)), l.Films...),
		Series: append(make([]Entry, 0, len(l.Series)), l.Series...),
	}
}

func (l List) with(e Entry) List {
	next := l.clone()
	if e.Kind == KindSeries {
		next.Series = append(next.Series, e)
	} else {
		next.Films = append(next.Films, e)
	}
	return next
}

func (l List) without(id string, kind Kind) List {
	next := l.clone()
	keep := func(in []Entry) []Entry {
		out := in[:0]
		for _, e := range in {
			if e.ID != id {
				out = append(out, e)
			}
		}
		return out
	}
	if kind == KindSeries {
		next.Series = keep(next.Series)
	} else {
		next.Films = keep(next.Films)
	}
	return next
}

func (l List) replace(e Entry) List {
	next := l.clone()
	bucket := next.Films
	if e.Kind == KindSeries {
		bucket = next.Series
	}
	for i := range bucket {
		if bucket[i].ID == e.ID {
			bucket[i] = e
		}
	}
	return next
}

func (l *List) normalize() {
	if l.Films == nil {
		l.Films = []Entry{}
	}
	if l.Series == nil {
		l.Series = []Entry{}
	}
}
