package models

import "time"

// MaxFieldLength is the longest text stored in a list entry field.
const MaxFieldLength = 191

// Defaults applied when a list entry is first created.
const (
	DefaultRating   = "N/A"
	DefaultVotes    = "0"
	DefaultGenreIDs = "[]"
	DefaultSource   = "tmdb"
)

// ListEntry is one user's relationship to one catalog movie.
//
// (UserID, MovieID) is unique. JSON field names match the API response shape.
type ListEntry struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"-"`
	UserID      string    `json:"userId" validate:"required"`
	MovieID     string    `json:"movieId" validate:"required"`
	Title       string    `json:"title" validate:"required,max=191"`
	Poster      string    `json:"poster" validate:"max=191"`
	Overview    string    `json:"overview" validate:"max=191"`
	ReleaseDate string    `json:"releaseDate" validate:"max=191"`
	Rating      string    `json:"rating" validate:"max=191"`
	Votes       string    `json:"votes" validate:"max=191"`
	GenreIDs    string    `json:"genreIds" validate:"max=191"`
	Description string    `json:"description" validate:"max=191"`
	Category    Category  `json:"category" validate:"required"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e *ListEntry) Key() string { return e.ID }

// Touch refreshes UpdatedAt and fills CreatedAt when unset.
func (e *ListEntry) Touch(now time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

func (e *ListEntry) Validate() error { return Validate(e) }

// Buckets groups list entries by canonical category.
//
// Field order is the JSON key order of the list response.
type Buckets struct {
	Watching       []*ListEntry `json:"watching"`
	WillWatch      []*ListEntry `json:"will-watch"`
	AlreadyWatched []*ListEntry `json:"already-watched"`
}

// NewBuckets returns Buckets with every slice non-nil so empty buckets encode as [].
func NewBuckets() *Buckets {
	return &Buckets{
		Watching:       []*ListEntry{},
		WillWatch:      []*ListEntry{},
		AlreadyWatched: []*ListEntry{},
	}
}

// Get returns the slice for a canonical category.
func (b *Buckets) Get(c Category) []*ListEntry {
	switch c {
	case Watching:
		return b.Watching
	case WillWatch:
		return b.WillWatch
	case AlreadyWatched:
		return b.AlreadyWatched
	}
	return nil
}

// Add appends e to the bucket for c. Non-canonical categories are ignored.
func (b *Buckets) Add(c Category, e *ListEntry) {
	switch c {
	case Watching:
		b.Watching = append(b.Watching, e)
	case WillWatch:
		b.WillWatch = append(b.WillWatch, e)
	case AlreadyWatched:
		b.AlreadyWatched = append(b.AlreadyWatched, e)
	}
}

// Len returns the number of bucketed entries.
func (b *Buckets) Len() int {
	return len(b.Watching) + len(b.WillWatch) + len(b.AlreadyWatched)
}
