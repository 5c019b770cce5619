package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	buckets *models.Buckets
	listErr error
	moves   []string
}

func (s *fakeStore) List(context.Context) (*models.Buckets, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.buckets, nil
}

func (s *fakeStore) Move(_ context.Context, entry *models.ListEntry, to models.Category) (*models.ListEntry, error) {
	s.moves = append(s.moves, entry.MovieID+"->"+string(to))
	moved := *entry
	moved.Category = to
	return &moved, nil
}

func newStore() *fakeStore {
	b := models.NewBuckets()
	b.Add(models.Watching, &models.ListEntry{MovieID: "1", Title: "Alien", Category: models.Watching})
	b.Add(models.WillWatch, &models.ListEntry{MovieID: "2", Title: "Heat", Category: models.WillWatch})
	b.Add(models.WillWatch, &models.ListEntry{MovieID: "3", Title: "Ran", Category: models.WillWatch})
	return &fakeStore{buckets: b}
}

func loadedModel(t *testing.T, store Store) *Model {
	t.Helper()

	m := NewModel(context.Background(), store)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	msg := m.Init()()
	m.Update(msg)
	require.True(t, m.loaded)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoad(t *testing.T) {
	m := loadedModel(t, newStore())

	assert.Len(t, m.lists[0].Items(), 1)
	assert.Len(t, m.lists[1].Items(), 2)
	assert.Empty(t, m.lists[2].Items())
	assert.Contains(t, m.View(), "Will Watch (2)")
}

func TestModelTabs(t *testing.T) {
	m := loadedModel(t, newStore())

	tests := []struct {
		key  tea.KeyMsg
		want models.Category
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, models.WillWatch},
		{tea.KeyMsg{Type: tea.KeyRight}, models.AlreadyWatched},
		{tea.KeyMsg{Type: tea.KeyTab}, models.Watching},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, models.AlreadyWatched},
		{tea.KeyMsg{Type: tea.KeyLeft}, models.WillWatch},
	}

	for _, tt := range tests {
		m.Update(tt.key)
		assert.Equal(t, tt.want, m.Tab(), tt.key.String())
	}
}

func TestModelMove(t *testing.T) {
	store := newStore()
	m := loadedModel(t, store)

	t.Run("same bucket is a no-op", func(t *testing.T) {
		_, cmd := m.Update(runes("1"))
		assert.Nil(t, cmd)
		assert.Contains(t, m.status, "already in Watching")
		assert.Empty(t, store.moves)
	})

	t.Run("moves through the store", func(t *testing.T) {
		_, cmd := m.Update(runes("3"))
		require.NotNil(t, cmd)

		msg := cmd()
		moved, ok := msg.(Msg)
		require.True(t, ok)
		assert.Equal(t, MsgEntryMoved, moved.kind)

		_, reload := m.Update(msg)
		require.NotNil(t, reload)
		assert.Equal(t, []string{"1->already-watched"}, store.moves)
		assert.Contains(t, m.status, `Moved "Alien" to Already Watched`)
	})
}

func TestModelLoadError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("database is locked")}
	m := NewModel(context.Background(), store)
	m.Update(m.Init()())

	assert.Contains(t, m.View(), "database is locked")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	assert.Equal(t, models.Watching, m.Tab())

	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
