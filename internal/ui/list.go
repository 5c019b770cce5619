package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/reelist/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.ListEntry] to implement [list.Item].
type entryItem struct {
	entry *models.ListEntry
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string {
	parts := []string{"#" + i.entry.MovieID}
	if i.entry.ReleaseDate != "" {
		parts = append(parts, i.entry.ReleaseDate)
	}
	if i.entry.Rating != "" && i.entry.Rating != models.DefaultRating {
		parts = append(parts, "★ "+i.entry.Rating)
	}
	return strings.Join(parts, " • ")
}

func entryItems(entries []*models.ListEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}
