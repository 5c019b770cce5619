// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/desertthunder/reelist/internal/shared"
)

// NewTestDB opens a migrated in-memory database that is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.Connect(shared.DatabaseConfig{Driver: shared.DriverCGO, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	return db
}

// SeedUser creates a user with email.
func SeedUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "Test User")
	if err := repositories.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return user
}

// SeedEntry stores an entry for userID with the category exactly as given.
func SeedEntry(t *testing.T, db *sql.DB, userID, movieID, category string) *models.ListEntry {
	t.Helper()

	entry := &models.ListEntry{
		UserID:   userID,
		MovieID:  movieID,
		Title:    "Movie " + movieID,
		Rating:   models.DefaultRating,
		Votes:    models.DefaultVotes,
		GenreIDs: models.DefaultGenreIDs,
		Category: models.Category(category),
		Source:   models.DefaultSource,
	}
	if err := repositories.NewListEntryRepository(db).Create(context.Background(), entry); err != nil {
		t.Fatalf("Failed to seed entry %s: %v", movieID, err)
	}
	return entry
}

// Logger returns a logger that discards output.
func Logger() *log.Logger {
	return log.New(io.Discard)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
