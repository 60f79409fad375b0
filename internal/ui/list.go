package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = failedItem{}

// failedItem wraps a failed file path to implement [list.Item].
type failedItem struct {
	path string
}

func (i failedItem) FilterValue() string { return i.path }
func (i failedItem) Title() string       { return filepath.Base(i.path) }
func (i failedItem) Description() string { return filepath.Dir(i.path) }

func failedItems(paths []string) []list.Item {
	items := make([]list.Item, len(paths))
	for i, p := range paths {
		items[i] = failedItem{path: p}
	}
	return items
}
