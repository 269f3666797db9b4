// Package command describes reversible scene mutations.
//
// A Command is built by the inspector, handed to the command sink, and
// owned by the sink's history from then on. Execute captures whatever the
// command needs to Undo, so a command must be executed before it is undone.
package command

import (
	"fmt"

	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

// Command is a reversible mutation of one node property.
type Command interface {
	// Execute applies the command to the graph.
	Execute(g *scene.Graph) error

	// Undo reverses a previous Execute.
	Undo(g *scene.Graph) error

	// Description returns a human-readable description.
	Description() string

	// Target returns the node the command mutates.
	Target() scene.Handle

	// Property returns the property the command mutates.
	Property() scene.Property

	// Value returns the value the command sets.
	Value() value.Value
}

// SetProperty sets one property of one node.
type SetProperty struct {
	target   scene.Handle
	property scene.Property
	value    value.Value

	previous value.Value
	executed bool
}

// NewSetProperty creates a command setting p of the node at h to v.
// It panics if v is not of the kind p holds; callers build values for a
// known property, so a mismatch is a bug.
func NewSetProperty(h scene.Handle, p scene.Property, v value.Value) *SetProperty {
	if v == nil || v.Kind() != p.ValueKind() {
		panic(fmt.Sprintf("command: %s needs a %s value, got %v", p, p.ValueKind(), v))
	}
	return &SetProperty{target: h, property: p, value: v}
}

func (c *SetProperty) Target() scene.Handle     { return c.target }
func (c *SetProperty) Property() scene.Property { return c.property }
func (c *SetProperty) Value() value.Value       { return c.value }

// Previous returns the value captured by the last Execute.
func (c *SetProperty) Previous() (value.Value, bool) {
	return c.previous, c.executed
}

// Execute records the current value and writes the new one.
func (c *SetProperty) Execute(g *scene.Graph) error {
	n, ok := g.Resolve(c.target)
	if !ok {
		return fmt.Errorf("set %s on %s: %w", c.property, c.target, scene.ErrStaleHandle)
	}

	prev, err := scene.Get(n, c.property)
	if err != nil {
		return fmt.Errorf("set %s on %s: %w", c.property, c.target, err)
	}
	if err := scene.Set(n, c.property, c.value); err != nil {
		return fmt.Errorf("set %s on %s: %w", c.property, c.target, err)
	}

	c.previous = prev
	c.executed = true
	return nil
}

// Undo restores the value captured by Execute.
func (c *SetProperty) Undo(g *scene.Graph) error {
	if !c.executed {
		return ErrNotExecuted
	}
	n, ok := g.Resolve(c.target)
	if !ok {
		return fmt.Errorf("undo %s on %s: %w", c.property, c.target, scene.ErrStaleHandle)
	}
	if err := scene.Set(n, c.property, c.previous); err != nil {
		return fmt.Errorf("undo %s on %s: %w", c.property, c.target, err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *SetProperty) Description() string {
	return fmt.Sprintf("Set %s to %s", c.property, c.value)
}
