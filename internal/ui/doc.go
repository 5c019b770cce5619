// Package ui implements an interactive terminal browser for a movie list using bubbletea's Elm architecture.
//
// The list is shown as three tabs, one per bucket: Watching, Will Watch, and Already Watched.
// Each tab is a charmbracelet/bubbles list. Entries are moved between buckets through a [Store],
// which in the CLI is backed by the same reader and writer the HTTP API uses.
//
// The [Model] implements the standard Init/Update/View pattern and receives store results as [Msg] values.
//
// Keyboard navigation: tab/shift+tab or ←/→ switch tabs, 1/2/3 move the selected entry,
// r reloads, / filters, q quits. Contextual help is rendered with charmbracelet/bubbles/help.
package ui
