package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reelist/internal/models"
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	store  Store
	tab    int
	lists  []list.Model
	loaded bool
	status string
	err    error
	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model reading from and writing to store.
func NewModel(ctx context.Context, store Store) *Model {
	lists := make([]list.Model, len(models.Categories))
	for i, c := range models.Categories {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = c.Title()
		l.SetShowHelp(false)
		l.DisableQuitKeybindings()
		lists[i] = l
	}

	return &Model{
		ctx:   ctx,
		store: store,
		lists: lists,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init loads the list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Tab returns the bucket shown in the active tab.
func (m *Model) Tab() models.Category { return models.Categories[m.tab] }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.lists[m.tab].FilterState() == list.Filtering {
			break
		}
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgEntriesLoaded:
			data := msg.data.(entriesLoaded)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.loaded = true
			var cmds []tea.Cmd
			for i, c := range models.Categories {
				cmds = append(cmds, m.lists[i].SetItems(entryItems(data.buckets.Get(c))))
			}
			return m, tea.Batch(cmds...)

		case MsgEntryMoved:
			data := msg.data.(entryMoved)
			if data.err != nil {
				m.status = styles.err.Render(fmt.Sprintf("Failed to move %q: %v", data.entry.Title, data.err))
				return m, nil
			}
			m.status = styles.ok.Render(fmt.Sprintf("Moved %q to %s", data.entry.Title, data.to.Title()))
			return m, m.load()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

// View renders the active tab.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if !m.loaded {
		return styles.help.Render("Loading...")
	}

	labels := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		labels[i] = fmt.Sprintf("%s (%d)", c.Title(), len(m.lists[i].Items()))
	}

	view := fmt.Sprintf("%s\n\n%s", styles.Tabs(labels, m.tab), m.lists[m.tab].View())
	if m.status != "" {
		view += "\n" + m.status
	}
	return fmt.Sprintf("%s\n\n%s", view, m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.load()
	case m.err != nil:
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.tab = (m.tab + 1) % len(m.lists)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.tab = (m.tab + len(m.lists) - 1) % len(m.lists)
		return m, nil
	case key.Matches(msg, m.keys.watch):
		return m, m.moveSelected(models.Watching)
	case key.Matches(msg, m.keys.later):
		return m, m.moveSelected(models.WillWatch)
	case key.Matches(msg, m.keys.watched):
		return m, m.moveSelected(models.AlreadyWatched)
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) moveSelected(to models.Category) tea.Cmd {
	item, ok := m.lists[m.tab].SelectedItem().(entryItem)
	if !ok {
		return nil
	}
	if m.Tab() == to {
		m.status = styles.warn.Render(fmt.Sprintf("%q is already in %s", item.entry.Title, to.Title()))
		return nil
	}

	entry := item.entry
	return func() tea.Msg {
		moved, err := m.store.Move(m.ctx, entry, to)
		if err == nil {
			entry = moved
		}
		return entryMovedMsg(entry, to, err)
	}
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		buckets, err := m.store.List(m.ctx)
		return entriesLoadedMsg(buckets, err)
	}
}
