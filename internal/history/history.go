// Package history provides undo/redo for scene commands.
//
// Commands are executed against a scene.Graph and pushed onto an undo
// stack. Undo pops a command, reverses it and moves it to the redo stack.
// Pushing a new command clears the redo stack.
//
//	h := history.New(1000)
//	h.Execute(cmd, graph)
//	h.Undo(graph)
//	h.Redo(graph)
package history

import (
	"errors"
	"time"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// EntryInfo describes a history entry.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

type entry struct {
	command   command.Command
	timestamp time.Time
}

func (e *entry) info() EntryInfo {
	return EntryInfo{Description: e.command.Description(), Timestamp: e.timestamp}
}

// History manages undo/redo state for a scene. It is owned by the
// goroutine that applies commands and is not safe for concurrent use.
type History struct {
	undoStack []*entry
	redoStack []*entry

	maxEntries int
}

// New creates a history holding at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Execute runs a command and adds it to the undo stack. A failed command
// is not recorded.
func (h *History) Execute(cmd command.Command, g *scene.Graph) error {
	if err := cmd.Execute(g); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push adds an already executed command to the undo stack and clears the
// redo stack.
func (h *History) Push(cmd command.Command) {
	h.undoStack = append(h.undoStack, &entry{command: cmd, timestamp: time.Now()})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverses the last command. A command that fails to undo stays on
// the undo stack.
func (h *History) Undo(g *scene.Graph) (command.Command, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	if err := e.command.Undo(g); err != nil {
		return nil, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e.command, nil
}

// Redo re-executes the last undone command.
func (h *History) Redo(g *scene.Graph) (command.Command, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	if err := e.command.Execute(g); err != nil {
		return nil, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e.command, nil
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int { return len(h.undoStack) }

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int { return len(h.redoStack) }

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	out := make([]EntryInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		out[i] = e.info()
	}
	return out
}

// PeekUndo describes the next undo without performing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	if len(h.undoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo describes the next redo without performing it.
func (h *History) PeekRedo() (EntryInfo, bool) {
	if len(h.redoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}
