package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/shared"
)

const entryColumns = `id, sequence, user_id, movie_id, title, poster, overview, release_date,
	rating, votes, genre_ids, description, category, source, created_at, updated_at`

// ListEntryRepository implements [models.Repository] for [models.ListEntry] persistence.
//
// Entries are hard-deleted; the (user_id, movie_id) unique index backs [ListEntryRepository.Upsert].
type ListEntryRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ListEntry] = (*ListEntryRepository)(nil)

// NewListEntryRepository creates a new [ListEntryRepository] with the given database connection
func NewListEntryRepository(db *sql.DB) *ListEntryRepository {
	return &ListEntryRepository{db: db}
}

// Create inserts a new entry with generated ID and sequence.
//
// A second entry for the same user and movie fails on the unique index.
func (r *ListEntryRepository) Create(ctx context.Context, entry *models.ListEntry) error {
	if err := r.prepare(ctx, entry); err != nil {
		return err
	}

	query := `INSERT INTO list_entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, entryArgs(entry)...); err != nil {
		return fmt.Errorf("failed to insert list entry: %w", err)
	}

	return nil
}

// Upsert inserts entry, or when the user already has the movie, moves the stored row to entry's category.
//
// Only category and updated_at change on conflict. The stored row is returned along with whether it was inserted.
func (r *ListEntryRepository) Upsert(ctx context.Context, entry *models.ListEntry) (*models.ListEntry, bool, error) {
	if err := r.prepare(ctx, entry); err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO list_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			category = excluded.category,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, entryArgs(entry)...); err != nil {
		return nil, false, fmt.Errorf("failed to upsert list entry: %w", err)
	}

	stored, err := r.FindByUserMovie(ctx, entry.UserID, entry.MovieID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("%w: %s/%s", shared.ErrEntryNotFound, entry.UserID, entry.MovieID)
	}

	return stored, stored.ID == entry.ID, nil
}

// prepare validates entry and assigns its ID, sequence, and timestamps.
func (r *ListEntryRepository) prepare(ctx context.Context, entry *models.ListEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "list_entries")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.GenerateID()
	entry.Sequence = sequence
	if entry.UpdatedAt.IsZero() {
		entry.Touch(time.Now().UTC())
	}
	return nil
}

// Get retrieves an entry by ID.
func (r *ListEntryRepository) Get(ctx context.Context, id string) (*models.ListEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM list_entries WHERE id = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list entry: %w", err)
	}

	return entry, nil
}

// FindByUserMovie returns the user's entry for movieID, or nil when the user has none.
func (r *ListEntryRepository) FindByUserMovie(ctx context.Context, userID, movieID string) (*models.ListEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM list_entries WHERE user_id = ? AND movie_id = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, movieID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list entry: %w", err)
	}

	return entry, nil
}

// ListByUser returns every entry owned by userID in insertion order.
func (r *ListEntryRepository) ListByUser(ctx context.Context, userID string) ([]*models.ListEntry, error) {
	return r.List(ctx, map[string]any{"user_id": userID})
}

// UpdateCategory moves an entry to category and returns the stored row.
func (r *ListEntryRepository) UpdateCategory(ctx context.Context, id string, category models.Category, at time.Time) (*models.ListEntry, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE list_entries SET category = ?, updated_at = ? WHERE id = ?`, string(category), at.UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update list entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	return r.Get(ctx, id)
}

// Update rewrites every mutable column of an existing entry.
func (r *ListEntryRepository) Update(ctx context.Context, entry *models.ListEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	entry.Touch(time.Now().UTC())

	query := `
		UPDATE list_entries
		SET title = ?, poster = ?, overview = ?, release_date = ?, rating = ?, votes = ?,
			genre_ids = ?, description = ?, category = ?, source = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.Title, entry.Poster, entry.Overview, entry.ReleaseDate, entry.Rating, entry.Votes,
		entry.GenreIDs, entry.Description, string(entry.Category), entry.Source, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, entry.ID)
	}

	return nil
}

// Delete removes an entry by ID.
func (r *ListEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	return nil
}

// List retrieves entries matching the given criteria ordered by sequence.
//
// Supported criteria are "user_id" and "category" (exact stored value).
func (r *ListEntryRepository) List(ctx context.Context, criteria map[string]any) ([]*models.ListEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM list_entries WHERE 1 = 1`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	switch category := criteria["category"].(type) {
	case string:
		query += " AND category = ?"
		args = append(args, category)
	case models.Category:
		query += " AND category = ?"
		args = append(args, string(category))
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query list entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.ListEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func entryArgs(e *models.ListEntry) []any {
	return []any{
		e.ID, e.Sequence, e.UserID, e.MovieID, e.Title, e.Poster, e.Overview, e.ReleaseDate,
		e.Rating, e.Votes, e.GenreIDs, e.Description, string(e.Category), e.Source, e.CreatedAt, e.UpdatedAt,
	}
}

func scanEntry(s scanner) (*models.ListEntry, error) {
	var (
		entry    models.ListEntry
		category string
	)

	err := s.Scan(
		&entry.ID, &entry.Sequence, &entry.UserID, &entry.MovieID, &entry.Title, &entry.Poster,
		&entry.Overview, &entry.ReleaseDate, &entry.Rating, &entry.Votes, &entry.GenreIDs,
		&entry.Description, &category, &entry.Source, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = models.Category(category)
	return &entry, nil
}
