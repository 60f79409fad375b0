package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/desertthunder/cloudup/internal/tasks"
)

// Console prints progress updates as colored lines, one style per [tasks.Level].
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	palette *Palette
	quiet   bool
}

var _ tasks.Sink = (*Console)(nil)

// NewConsole creates a Console writing to w, which defaults to [os.Stdout].
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w, palette: styles}
}

// Quiet suppresses info-level updates; warnings, errors and successes are still printed.
func (c *Console) Quiet(q bool) *Console {
	c.quiet = q
	return c
}

// Send prints u. Write errors are ignored.
func (c *Console) Send(u tasks.ProgressUpdate) {
	if c.quiet && u.Level == tasks.LevelInfo {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.palette.ForLevel(u.Level).Render(u.Message))
}
