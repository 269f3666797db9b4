package app

import (
	"errors"
	"fmt"

	"github.com/dshills/scenepanel/internal/inspector"
	"github.com/dshills/scenepanel/internal/script"
)

// The App is the host for Lua scripts. Lookup and parse failures are
// usage errors a script may recover from; a lost sink is not.

// Nodes returns node names in graph order.
func (a *App) Nodes() []string {
	handles := a.graph.Handles()
	names := make([]string, 0, len(handles))
	for _, h := range handles {
		n, _ := a.graph.Resolve(h)
		names = append(names, n.Common().Name)
	}
	return names
}

// Select implements script.Host.
func (a *App) Select(name string) error {
	return usage(a.SelectName(name))
}

// Edit implements script.Host.
func (a *App) Edit(section, label, text string) error {
	return usage(a.EditField(section, label, text))
}

// Get implements script.Host.
func (a *App) Get(section, label string) (string, bool) {
	return a.FieldText(section, label)
}

func usage(err error) error {
	if err == nil || errors.Is(err, inspector.ErrSessionEnded) {
		return err
	}
	return fmt.Errorf("%w: %w", script.ErrUsage, err)
}

var _ script.Host = (*App)(nil)
