package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/reelist/internal/shared"
)

// Category is the list bucket an entry belongs to, stored lowercase-hyphenated.
type Category string

const (
	Watching       Category = "watching"
	WillWatch      Category = "will-watch"
	AlreadyWatched Category = "already-watched"
)

// Categories lists the canonical buckets in display order.
var Categories = []Category{Watching, WillWatch, AlreadyWatched}

// categoryLabels maps every label clients are known to send to its canonical bucket.
//
// Keys are case-sensitive.
var categoryLabels = map[string]Category{
	"Watching":        Watching,
	"watching":        Watching,
	"Will Watch":      WillWatch,
	"will watch":      WillWatch,
	"will-watch":      WillWatch,
	"Already Watched": AlreadyWatched,
	"already watched": AlreadyWatched,
	"already-watched": AlreadyWatched,
}

// bucketLabels maps lower-cased stored values to buckets when reading.
var bucketLabels = map[string]Category{
	"watching":        Watching,
	"will watch":      WillWatch,
	"will-watch":      WillWatch,
	"already watched": AlreadyWatched,
	"already-watched": AlreadyWatched,
}

// NormalizeCategory maps a client label to its canonical [Category].
//
// Labels outside the table return [shared.ErrUnknownCategory].
func NormalizeCategory(label string) (Category, error) {
	if c, ok := categoryLabels[label]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownCategory, label)
}

// NormalizeCategoryLenient maps a label like [NormalizeCategory] but falls back to the lower-cased label.
//
// The fallback can produce a value outside [Categories]; readers drop such entries.
func NormalizeCategoryLenient(label string) Category {
	if c, err := NormalizeCategory(label); err == nil {
		return c
	}
	return Category(strings.ToLower(label))
}

// Bucket reports which canonical bucket a stored category reads into, comparing case-insensitively.
func (c Category) Bucket() (Category, bool) {
	b, ok := bucketLabels[strings.ToLower(string(c))]
	return b, ok
}

// Valid reports whether c is one of the canonical buckets.
func (c Category) Valid() bool {
	switch c {
	case Watching, WillWatch, AlreadyWatched:
		return true
	}
	return false
}

// Title returns the human label used by the CLI and TUI.
func (c Category) Title() string {
	switch c {
	case Watching:
		return "Watching"
	case WillWatch:
		return "Will Watch"
	case AlreadyWatched:
		return "Already Watched"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
