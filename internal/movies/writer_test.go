package movies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/desertthunder/reelist/internal/shared"
	tu "github.com/desertthunder/reelist/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T, strict bool) (*Writer, *sql.DB) {
	t.Helper()

	db := tu.NewTestDB(t)
	w := NewWriter(
		repositories.NewUserRepository(db),
		repositories.NewListEntryRepository(db),
		tu.Logger(),
		WriterConfig{StrictCategories: strict},
	)
	return w, db
}

func decode(t *testing.T, body string) Payload {
	t.Helper()

	p, err := DecodePayload(strings.NewReader(body))
	require.NoError(t, err)
	return p
}

func listFor(t *testing.T, db *sql.DB, userID string) []*models.ListEntry {
	t.Helper()

	entries, err := repositories.NewListEntryRepository(db).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return entries
}

func TestWriterSave_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		entry, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 603, "title": "The Matrix", "category": "Watching"}`))
		require.NoError(t, err)

		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, user.ID, entry.UserID)
		assert.Equal(t, "603", entry.MovieID)
		assert.Equal(t, "The Matrix", entry.Title)
		assert.Equal(t, models.Watching, entry.Category)
		assert.Equal(t, "", entry.Poster)
		assert.Equal(t, "", entry.Overview)
		assert.Equal(t, "", entry.ReleaseDate)
		assert.Equal(t, "N/A", entry.Rating)
		assert.Equal(t, "0", entry.Votes)
		assert.Equal(t, "[]", entry.GenreIDs)
		assert.Equal(t, "", entry.Description)
		assert.Equal(t, "tmdb", entry.Source)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("falsy optional fields take defaults", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		entry, err := w.Save(ctx, user.ID, decode(t, `{
			"movieId": "603", "title": "The Matrix", "category": "watching",
			"rating": 0, "votes": "", "poster": null, "source": "", "genreIds": 12
		}`))
		require.NoError(t, err)

		assert.Equal(t, "N/A", entry.Rating)
		assert.Equal(t, "0", entry.Votes)
		assert.Equal(t, "", entry.Poster)
		assert.Equal(t, "tmdb", entry.Source)
		assert.Equal(t, "[]", entry.GenreIDs)
	})

	t.Run("keeps provided fields", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		entry, err := w.Save(ctx, user.ID, decode(t, `{
			"movieId": "603", "title": "The Matrix", "category": "Already Watched",
			"poster": "/m.jpg", "overview": "Neo", "releaseDate": "1999-03-31",
			"rating": 8.2, "votes": "25000", "genreIds": "[28,878]",
			"description": "desc", "source": "imdb"
		}`))
		require.NoError(t, err)

		assert.Equal(t, models.AlreadyWatched, entry.Category)
		assert.Equal(t, "/m.jpg", entry.Poster)
		assert.Equal(t, "Neo", entry.Overview)
		assert.Equal(t, "1999-03-31", entry.ReleaseDate)
		assert.Equal(t, "8.2", entry.Rating)
		assert.Equal(t, "25000", entry.Votes)
		assert.Equal(t, "[28,878]", entry.GenreIDs)
		assert.Equal(t, "desc", entry.Description)
		assert.Equal(t, "imdb", entry.Source)
	})

	t.Run("truncates text fields but not source", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		long := strings.Repeat("é", 300)
		body, err := json.Marshal(map[string]any{
			"movieId":     "603",
			"title":       long,
			"category":    "watching",
			"poster":      long,
			"overview":    long,
			"description": long,
			"genreIds":    long,
			"source":      long,
		})
		require.NoError(t, err)

		entry, err := w.Save(ctx, user.ID, decode(t, string(body)))
		require.NoError(t, err)

		want := strings.Repeat("é", models.MaxFieldLength)
		assert.Equal(t, want, entry.Title)
		assert.Equal(t, want, entry.Poster)
		assert.Equal(t, want, entry.Overview)
		assert.Equal(t, want, entry.Description)
		assert.Equal(t, want, entry.GenreIDs)
		assert.Equal(t, long, entry.Source)
	})

	t.Run("configured default source", func(t *testing.T) {
		db := tu.NewTestDB(t)
		user := tu.SeedUser(t, db, "ada@example.com")
		w := NewWriter(repositories.NewUserRepository(db), repositories.NewListEntryRepository(db), tu.Logger(),
			WriterConfig{StrictCategories: true, DefaultSource: "omdb"})

		entry, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 1, "title": "T", "category": "watching"}`))
		require.NoError(t, err)
		assert.Equal(t, "omdb", entry.Source)
	})
}

func TestWriterSave_Normalize(t *testing.T) {
	ctx := context.Background()

	tc := []struct {
		label string
		want  models.Category
	}{
		{"Watching", models.Watching},
		{"watching", models.Watching},
		{"Will Watch", models.WillWatch},
		{"will watch", models.WillWatch},
		{"will-watch", models.WillWatch},
		{"Already Watched", models.AlreadyWatched},
		{"already watched", models.AlreadyWatched},
		{"already-watched", models.AlreadyWatched},
	}

	for _, tt := range tc {
		t.Run(tt.label, func(t *testing.T) {
			w, db := newTestWriter(t, true)
			user := tu.SeedUser(t, db, "ada@example.com")

			entry, err := w.Save(ctx, user.ID, Payload{MovieID: NewText("1"), Title: NewText("T"), Category: NewText(tt.label)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.Category)
		})
	}

	t.Run("strict rejects unknown labels", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		_, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 1, "title": "T", "category": "Dropped"}`))

		e := AsError(err)
		assert.Equal(t, KindInvalidCategory, e.Kind)
		assert.Equal(t, 400, e.Status)
		assert.ErrorIs(t, err, shared.ErrUnknownCategory)

		body, err := json.Marshal(e.Body(false))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"error": "Invalid category",
			"details": {"category": "Dropped", "allowed": ["watching", "will-watch", "already-watched"]}
		}`, string(body))

		assert.Empty(t, listFor(t, db, user.ID))
	})

	t.Run("lenient stores lower-cased label", func(t *testing.T) {
		w, db := newTestWriter(t, false)
		user := tu.SeedUser(t, db, "ada@example.com")

		entry, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 1, "title": "T", "category": "Some-Other-Label"}`))
		require.NoError(t, err)
		assert.Equal(t, models.Category("some-other-label"), entry.Category)

		reader := NewReader(repositories.NewListEntryRepository(db), tu.Logger())
		buckets, err := reader.List(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, buckets.Len(), "unknown categories are not bucketed")
	})
}

func TestWriterSave_Update(t *testing.T) {
	ctx := context.Background()

	w, db := newTestWriter(t, true)
	user := tu.SeedUser(t, db, "ada@example.com")

	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return first }

	created, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 603, "title": "The Matrix", "category": "will watch", "poster": "/a.jpg"}`))
	require.NoError(t, err)

	second := first.Add(time.Hour)
	w.now = func() time.Time { return second }

	updated, err := w.Save(ctx, user.ID, decode(t, `{"movieId": "603", "title": "Another Title", "category": "Already Watched", "poster": "/b.jpg"}`))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.AlreadyWatched, updated.Category)
	assert.Equal(t, "The Matrix", updated.Title, "only category changes on update")
	assert.Equal(t, "/a.jpg", updated.Poster)
	assert.True(t, updated.CreatedAt.Equal(first))
	assert.True(t, updated.UpdatedAt.Equal(second))

	assert.Len(t, listFor(t, db, user.ID), 1)

	t.Run("numeric spellings share a key", func(t *testing.T) {
		for _, id := range []string{`603.0`, `6.03e2`} {
			moved, err := w.Save(ctx, user.ID, decode(t, `{"movieId": `+id+`, "title": "The Matrix", "category": "watching"}`))
			require.NoError(t, err)
			assert.Equal(t, created.ID, moved.ID, id)
			assert.Equal(t, "603", moved.MovieID)
		}
		assert.Len(t, listFor(t, db, user.ID), 1)
	})
}

func TestWriterSave_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields echo submitted values", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		_, err := w.Save(ctx, user.ID, decode(t, `{"movieId": 603, "category": "Watching"}`))

		e := AsError(err)
		assert.Equal(t, KindMissingFields, e.Kind)
		assert.Equal(t, 400, e.Status)

		body, err := json.Marshal(e.Body(false))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"error": "Missing required fields",
			"details": {"movieId": 603, "title": null, "category": "Watching"}
		}`, string(body))

		assert.Empty(t, listFor(t, db, user.ID))
	})

	t.Run("falsy required values are missing", func(t *testing.T) {
		w, db := newTestWriter(t, true)
		user := tu.SeedUser(t, db, "ada@example.com")

		for _, body := range []string{
			`{"movieId": 0, "title": "T", "category": "watching"}`,
			`{"movieId": 1, "title": "", "category": "watching"}`,
			`{"movieId": 1, "title": "T", "category": false}`,
			`{}`,
		} {
			_, err := w.Save(ctx, user.ID, decode(t, body))
			assert.Equal(t, KindMissingFields, AsError(err).Kind, body)
		}
	})

	t.Run("user not found", func(t *testing.T) {
		w, _ := newTestWriter(t, true)

		_, err := w.Save(ctx, "ghost", decode(t, `{"movieId": 1, "title": "T", "category": "watching"}`))

		e := AsError(err)
		assert.Equal(t, KindUserNotFound, e.Kind)
		assert.Equal(t, 404, e.Status)

		body, err := json.Marshal(e.Body(false))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"error": "User not found",
			"details": "The user associated with this session does not exist",
			"userId": "ghost"
		}`, string(body))
	})

	t.Run("update failure", func(t *testing.T) {
		store := &stubEntries{existing: &models.ListEntry{ID: "e1"}, updateErr: errors.New("database is locked")}
		w := NewWriter(stubUsers{}, store, tu.Logger(), WriterConfig{StrictCategories: true})

		_, err := w.Save(ctx, "u1", decode(t, `{"movieId": 1, "title": "T", "category": "watching"}`))

		e := AsError(err)
		assert.Equal(t, KindUpdateFailed, e.Kind)
		assert.Equal(t, "Failed to update movie", e.Message)
		assert.Equal(t, Body{Error: "Failed to update movie"}, e.Body(false))
		assert.Equal(t, "database is locked", e.Body(true).Details)
	})

	t.Run("create failure", func(t *testing.T) {
		store := &stubEntries{upsertErr: errors.New("disk full")}
		w := NewWriter(stubUsers{}, store, tu.Logger(), WriterConfig{StrictCategories: true})

		_, err := w.Save(ctx, "u1", decode(t, `{"movieId": 1, "title": "T", "category": "watching"}`))

		e := AsError(err)
		assert.Equal(t, KindCreateFailed, e.Kind)
		assert.Equal(t, 500, e.Status)
		assert.Empty(t, e.Body(false).Stack)
	})

	t.Run("lookup failure is internal", func(t *testing.T) {
		store := &stubEntries{findErr: errors.New("boom")}
		w := NewWriter(stubUsers{}, store, tu.Logger(), WriterConfig{StrictCategories: true})

		_, err := w.Save(ctx, "u1", decode(t, `{"movieId": 1, "title": "T", "category": "watching"}`))

		e := AsError(err)
		assert.Equal(t, KindInternalError, e.Kind)
		assert.Equal(t, "Internal server error", e.Message)

		debugBody := e.Body(true)
		assert.Equal(t, "boom", debugBody.Details)
		assert.NotEmpty(t, debugBody.Stack)

		plain := e.Body(false)
		assert.Nil(t, plain.Details)
		assert.Empty(t, plain.Stack)
	})
}

func TestWriterResolveUser(t *testing.T) {
	ctx := context.Background()
	w, db := newTestWriter(t, true)
	user := tu.SeedUser(t, db, "ada@example.com")

	t.Run("session user id wins", func(t *testing.T) {
		id, err := w.ResolveUser(ctx, Identity{UserID: "u-from-session", Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "u-from-session", id)
	})

	t.Run("falls back to email", func(t *testing.T) {
		id, err := w.ResolveUser(ctx, Identity{Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := w.ResolveUser(ctx, Identity{Email: "nobody@example.com"})

		e := AsError(err)
		assert.Equal(t, KindInvalidUser, e.Kind)
		assert.Equal(t, 401, e.Status)
		assert.Equal(t, Body{Error: "Invalid user ID"}, e.Body(true))
	})

	t.Run("no identity", func(t *testing.T) {
		_, err := w.ResolveUser(ctx, Identity{})
		assert.Equal(t, KindInvalidUser, AsError(err).Kind)
	})
}

func TestWriterSave_Concurrent(t *testing.T) {
	ctx := context.Background()
	w, db := newTestWriter(t, true)
	user := tu.SeedUser(t, db, "ada@example.com")

	labels := []string{"Watching", "Will Watch", "Already Watched"}

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := range 12 {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			p := Payload{MovieID: NewText("603"), Title: NewText("The Matrix"), Category: NewText(label)}
			if _, err := w.Save(ctx, user.ID, p); err != nil {
				errs <- err
			}
		}(labels[i%len(labels)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Save() error = %v", err)
	}

	assert.Len(t, listFor(t, db, user.ID), 1)
	assert.Zero(t, w.locks.Len(), "idle keys are released")
}

func TestWriterSave_ConcurrentFileDB(t *testing.T) {
	for _, driver := range []string{shared.DriverCGO, shared.DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			db, err := shared.Connect(shared.DatabaseConfig{
				Driver:       driver,
				Path:         filepath.Join(t.TempDir(), "reelist.db"),
				MaxOpenConns: 10,
				MaxIdleConns: 5,
			})
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			user := tu.SeedUser(t, db, "ada@example.com")
			w := NewWriter(
				repositories.NewUserRepository(db),
				repositories.NewListEntryRepository(db),
				tu.Logger(),
				WriterConfig{},
			)

			const writers = 40
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := range writers {
				wg.Add(1)
				go func(movieID string) {
					defer wg.Done()
					p := Payload{MovieID: NewText(movieID), Title: NewText("Movie " + movieID), Category: NewText("Watching")}
					if _, err := w.Save(ctx, user.ID, p); err != nil {
						errs <- err
					}
				}(fmt.Sprint(i + 1))
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Errorf("Save() error = %v", err)
			}
			assert.Len(t, listFor(t, db, user.ID), writers)
		})
	}
}

type stubUsers struct{}

func (stubUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, shared.ErrUserNotFound
}

func (stubUsers) Exists(context.Context, string) (bool, error) { return true, nil }

type stubEntries struct {
	existing  *models.ListEntry
	findErr   error
	updateErr error
	upsertErr error
}

func (s *stubEntries) FindByUserMovie(context.Context, string, string) (*models.ListEntry, error) {
	return s.existing, s.findErr
}

func (s *stubEntries) UpdateCategory(_ context.Context, id string, c models.Category, at time.Time) (*models.ListEntry, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.ListEntry{ID: id, Category: c, UpdatedAt: at}, nil
}

func (s *stubEntries) Upsert(_ context.Context, e *models.ListEntry) (*models.ListEntry, bool, error) {
	if s.upsertErr != nil {
		return nil, false, s.upsertErr
	}
	return e, true, nil
}
