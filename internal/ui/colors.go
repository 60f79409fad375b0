package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cloudup/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	help    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		info:    lipgloss.NewStyle(),
		success: NewBold(s),
		error:   NewBold(e),
		warning: NewStyle(w),
		help:    NewEm(h),
	}
}

// ForLevel returns the style used to print an update of the given level.
func (p *Palette) ForLevel(level tasks.Level) lipgloss.Style {
	switch level {
	case tasks.LevelSuccess:
		return p.success
	case tasks.LevelWarn:
		return p.warning
	case tasks.LevelError:
		return p.error
	default:
		return p.info
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
