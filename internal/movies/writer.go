package movies

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/shared"
)

// UserFinder resolves and checks the users that own list entries.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// EntryStore persists list entries keyed by (user, movie).
type EntryStore interface {
	FindByUserMovie(ctx context.Context, userID, movieID string) (*models.ListEntry, error)
	UpdateCategory(ctx context.Context, id string, category models.Category, at time.Time) (*models.ListEntry, error)
	Upsert(ctx context.Context, entry *models.ListEntry) (*models.ListEntry, bool, error)
}

// Identity is who a write is made for, as carried by the session.
type Identity struct {
	UserID string
	Email  string
}

// WriterConfig controls category handling and creation defaults.
type WriterConfig struct {
	// StrictCategories rejects labels outside the known table instead of storing them lower-cased.
	StrictCategories bool
	DefaultSource    string
}

// Writer adds movies to lists and moves them between categories.
type Writer struct {
	users   UserFinder
	entries EntryStore
	locks   *KeyedMutex
	logger  *log.Logger
	cfg     WriterConfig
	now     func() time.Time
}

func NewWriter(users UserFinder, entries EntryStore, logger *log.Logger, cfg WriterConfig) *Writer {
	if cfg.DefaultSource == "" {
		cfg.DefaultSource = models.DefaultSource
	}
	return &Writer{
		users:   users,
		entries: entries,
		locks:   NewKeyedMutex(),
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ResolveUser returns the id to write for: the session's user id, else the id of the user with the session's email.
//
// Failing both is [KindInvalidUser].
func (w *Writer) ResolveUser(ctx context.Context, id Identity) (string, error) {
	if id.UserID != "" {
		return id.UserID, nil
	}
	if id.Email == "" {
		return "", invalidUser(shared.ErrNotAuthenticated)
	}

	user, err := w.users.GetByEmail(ctx, id.Email)
	if errors.Is(err, shared.ErrUserNotFound) {
		w.logger.Warn("no user for session email", "email", id.Email)
		return "", invalidUser(err)
	}
	if err != nil {
		return "", internalError(err)
	}
	return user.ID, nil
}

// Normalize maps a category label according to the writer's strictness.
func (w *Writer) Normalize(label string) (models.Category, error) {
	if !w.cfg.StrictCategories {
		return models.NormalizeCategoryLenient(label), nil
	}

	c, err := models.NormalizeCategory(label)
	if err != nil {
		return "", invalidCategory(label, err)
	}
	return c, nil
}

// Save adds the payload's movie to userID's list, or moves the existing entry to the payload's category.
//
// Existing entries change category and updatedAt only. Writes for the same user and movie are serialized.
func (w *Writer) Save(ctx context.Context, userID string, p Payload) (*models.ListEntry, error) {
	if p.missing() {
		return nil, missingFields(p)
	}

	category, err := w.Normalize(p.Category.String())
	if err != nil {
		return nil, err
	}

	ok, err := w.users.Exists(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		w.logger.Error("user not found", "user", userID)
		return nil, userNotFound(userID)
	}

	movieID := p.MovieID.String()
	unlock := w.locks.Lock(userID + "\x00" + movieID)
	defer unlock()

	existing, err := w.entries.FindByUserMovie(ctx, userID, movieID)
	if err != nil {
		return nil, internalError(err)
	}

	if existing != nil {
		updated, err := w.entries.UpdateCategory(ctx, existing.ID, category, w.now())
		if err != nil {
			w.logger.Error("failed to update entry", "entry", existing.ID, "error", err)
			return nil, updateFailed(err)
		}
		w.logger.Info("moved entry", "user", userID, "movie", movieID, "category", category)
		return updated, nil
	}

	stored, created, err := w.entries.Upsert(ctx, w.build(userID, category, p))
	if err != nil {
		w.logger.Error("failed to create entry", "user", userID, "movie", movieID, "error", err)
		return nil, createFailed(err)
	}
	w.logger.Info("saved entry", "user", userID, "movie", movieID, "category", category, "created", created)
	return stored, nil
}

// build fills a new entry from the payload with defaults and field limits applied.
func (w *Writer) build(userID string, category models.Category, p Payload) *models.ListEntry {
	limit := func(s string) string { return shared.Truncate(s, models.MaxFieldLength) }

	genreIDs := models.DefaultGenreIDs
	if s, ok := p.genreIDs(); ok {
		genreIDs = limit(s)
	}

	now := w.now()
	return &models.ListEntry{
		UserID:      userID,
		MovieID:     p.MovieID.String(),
		Title:       limit(p.Title.String()),
		Poster:      limit(p.Poster.Or("")),
		Overview:    limit(p.Overview.Or("")),
		ReleaseDate: limit(p.ReleaseDate.Or("")),
		Rating:      limit(p.Rating.Or(models.DefaultRating)),
		Votes:       limit(p.Votes.Or(models.DefaultVotes)),
		GenreIDs:    genreIDs,
		Description: limit(p.Description.Or("")),
		Category:    category,
		Source:      p.Source.Or(w.cfg.DefaultSource),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
