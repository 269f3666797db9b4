package inspector

import (
	"fmt"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

// FieldBinding ties one widget to one property of a node.
type FieldBinding struct {
	Widget WidgetID
	Spec   FieldSpec

	read      func(scene.Node) value.Value
	toCommand func(scene.Handle, value.Value) command.Command
}

// NewFieldBinding creates a binding from explicit accessors. read must not
// mutate the node and toCommand must not have side effects.
func NewFieldBinding(
	widget WidgetID,
	spec FieldSpec,
	read func(scene.Node) value.Value,
	toCommand func(scene.Handle, value.Value) command.Command,
) FieldBinding {
	return FieldBinding{Widget: widget, Spec: spec, read: read, toCommand: toCommand}
}

// BindProperty binds a widget to a scene property. Reads go through
// scene.Get and edits become command.SetProperty.
func BindProperty(widget WidgetID, spec FieldSpec, p scene.Property) FieldBinding {
	if spec.Kind != p.ValueKind() {
		panic(fmt.Sprintf("inspector: field %q is %s but %s holds %s", spec.Label, spec.Kind, p, p.ValueKind()))
	}
	return NewFieldBinding(
		widget,
		spec,
		func(n scene.Node) value.Value {
			v, err := scene.Get(n, p)
			if err != nil {
				panic(fmt.Sprintf("inspector: reading %s: %v", p, err))
			}
			return v
		},
		func(h scene.Handle, v value.Value) command.Command {
			return command.NewSetProperty(h, p, v)
		},
	)
}

// Read returns the property's current value.
func (b FieldBinding) Read(n scene.Node) value.Value {
	return b.read(n)
}

// ToCommand builds the command that sets the property to v. It panics if
// v is not of the field's kind.
func (b FieldBinding) ToCommand(h scene.Handle, v value.Value) command.Command {
	if v == nil || v.Kind() != b.Spec.Kind {
		panic(fmt.Sprintf("inspector: field %q takes %s, got %v", b.Spec.Label, b.Spec.Kind, v))
	}
	return b.toCommand(h, v)
}
