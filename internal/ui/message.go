package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reelist/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgEntriesLoaded MsgKind = iota
	MsgEntryMoved
)

type entriesLoaded struct {
	buckets *models.Buckets
	err     error
}

type entryMoved struct {
	entry *models.ListEntry
	to    models.Category
	err   error
}

// entriesLoadedMsg is the constructor for [MsgEntriesLoaded]
func entriesLoadedMsg(buckets *models.Buckets, err error) Msg {
	return Msg{kind: MsgEntriesLoaded, data: entriesLoaded{buckets, err}}
}

// entryMovedMsg is the constructor for [MsgEntryMoved]
func entryMovedMsg(entry *models.ListEntry, to models.Category, err error) Msg {
	return Msg{kind: MsgEntryMoved, data: entryMoved{entry, to, err}}
}
