package ui

import (
	"context"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/movies"
)

// Store loads and edits one user's list.
type Store interface {
	List(ctx context.Context) (*models.Buckets, error)
	Move(ctx context.Context, entry *models.ListEntry, to models.Category) (*models.ListEntry, error)
}

// ListStore is a [Store] over the movie list reader and writer.
type ListStore struct {
	reader *movies.Reader
	writer *movies.Writer
	userID string
}

func NewListStore(reader *movies.Reader, writer *movies.Writer, userID string) *ListStore {
	return &ListStore{reader: reader, writer: writer, userID: userID}
}

func (s *ListStore) List(ctx context.Context) (*models.Buckets, error) {
	return s.reader.List(ctx, s.userID)
}

// Move saves entry under to, the same write a client makes when it drags a card between columns.
func (s *ListStore) Move(ctx context.Context, entry *models.ListEntry, to models.Category) (*models.ListEntry, error) {
	return s.writer.Save(ctx, s.userID, movies.Payload{
		MovieID:  movies.NewText(entry.MovieID),
		Title:    movies.NewText(entry.Title),
		Category: movies.NewText(to.Title()),
	})
}
