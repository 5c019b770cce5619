package movies

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/models"
)

// EntryLister loads every entry a user owns in store order.
type EntryLister interface {
	ListByUser(ctx context.Context, userID string) ([]*models.ListEntry, error)
}

// Reader serves a user's list grouped into buckets.
type Reader struct {
	entries EntryLister
	logger  *log.Logger
}

func NewReader(entries EntryLister, logger *log.Logger) *Reader {
	return &Reader{entries: entries, logger: logger}
}

// List returns the user's entries partitioned by category.
//
// Readers never fall back to the session email: a missing userID is [NoUserID].
func (r *Reader) List(ctx context.Context, userID string) (*models.Buckets, error) {
	if userID == "" {
		return nil, NoUserID()
	}

	entries, err := r.entries.ListByUser(ctx, userID)
	if err != nil {
		r.logger.Error("failed to fetch list", "user", userID, "error", err)
		return nil, fetchError(err)
	}

	buckets := Partition(entries)
	r.logger.Debug("fetched list", "user", userID, "entries", len(entries), "bucketed", buckets.Len())
	return buckets, nil
}

// Partition groups entries into buckets by case-insensitive category, preserving input order.
//
// Entries whose category matches no bucket are dropped.
func Partition(entries []*models.ListEntry) *models.Buckets {
	buckets := models.NewBuckets()
	for _, e := range entries {
		if c, ok := e.Category.Bucket(); ok {
			buckets.Add(c, e)
		}
	}
	return buckets
}
