package movies

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/repositories"
	tu "github.com/desertthunder/reelist/internal/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLister struct{ err error }

func (f failingLister) ListByUser(context.Context, string) ([]*models.ListEntry, error) {
	return nil, f.err
}

func movieIDs(entries []*models.ListEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	return ids
}

func TestPartition(t *testing.T) {
	entry := func(movieID, category string) *models.ListEntry {
		return &models.ListEntry{MovieID: movieID, Category: models.Category(category)}
	}

	entries := []*models.ListEntry{
		entry("1", "watching"),
		entry("2", "Will Watch"),
		entry("3", "already-watched"),
		entry("4", "WATCHING"),
		entry("5", "some-other-label"),
		entry("6", "will-watch"),
		entry("7", "Already Watched"),
	}

	buckets := Partition(entries)

	got := map[string][]string{
		"watching":        movieIDs(buckets.Watching),
		"will-watch":      movieIDs(buckets.WillWatch),
		"already-watched": movieIDs(buckets.AlreadyWatched),
	}
	want := map[string][]string{
		"watching":        {"1", "4"},
		"will-watch":      {"2", "6"},
		"already-watched": {"3", "7"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Partition() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, buckets.Len(), "unmatched entries are dropped")
}

func TestReaderList(t *testing.T) {
	ctx := context.Background()

	t.Run("groups stored entries", func(t *testing.T) {
		db := tu.NewTestDB(t)
		user := tu.SeedUser(t, db, "ada@example.com")
		other := tu.SeedUser(t, db, "bob@example.com")

		tu.SeedEntry(t, db, user.ID, "1", "watching")
		tu.SeedEntry(t, db, user.ID, "2", "Will Watch")
		tu.SeedEntry(t, db, other.ID, "3", "watching")

		reader := NewReader(repositories.NewListEntryRepository(db), tu.Logger())
		buckets, err := reader.List(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"1"}, movieIDs(buckets.Watching))
		assert.Equal(t, []string{"2"}, movieIDs(buckets.WillWatch))
		assert.Empty(t, buckets.AlreadyWatched)
	})

	t.Run("empty list encodes three empty arrays", func(t *testing.T) {
		db := tu.NewTestDB(t)
		user := tu.SeedUser(t, db, "ada@example.com")

		reader := NewReader(repositories.NewListEntryRepository(db), tu.Logger())
		buckets, err := reader.List(ctx, user.ID)
		require.NoError(t, err)

		data, err := json.Marshal(buckets)
		require.NoError(t, err)
		assert.Equal(t, `{"watching":[],"will-watch":[],"already-watched":[]}`, string(data))
	})

	t.Run("missing user id", func(t *testing.T) {
		reader := NewReader(failingLister{}, tu.Logger())
		_, err := reader.List(ctx, "")

		e := AsError(err)
		assert.Equal(t, KindNoUserID, e.Kind)
		assert.Equal(t, 401, e.Status)
		assert.Equal(t, "No user ID in session", e.Message)
	})

	t.Run("store failure", func(t *testing.T) {
		cause := errors.New("disk I/O error")
		reader := NewReader(failingLister{err: cause}, tu.Logger())
		_, err := reader.List(ctx, "u1")

		e := AsError(err)
		assert.Equal(t, KindFetchError, e.Kind)
		assert.Equal(t, 500, e.Status)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, Body{Error: "Failed to fetch movies"}, e.Body(false))
	})
}
