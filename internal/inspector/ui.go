package inspector

import (
	"fmt"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

// WidgetID is an opaque handle into the UI layer. The zero value names no
// widget.
type WidgetID uint32

// Direction tags a widget write or notification with where it came from.
type Direction int

const (
	// ToWidget marks a programmatic model-to-UI write.
	ToWidget Direction = iota
	// FromWidget marks a user-originated change.
	FromWidget
)

func (d Direction) String() string {
	switch d {
	case ToWidget:
		return "to_widget"
	case FromWidget:
		return "from_widget"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ChangeNotification reports a new value in a widget.
type ChangeNotification struct {
	Widget    WidgetID
	Value     value.Value
	Direction Direction
}

// UI is the write side of the UI layer.
type UI interface {
	// SetValue displays v in the widget. Sync always passes ToWidget.
	SetValue(id WidgetID, v value.Value, dir Direction)

	// SetVisible shows or hides a container.
	SetVisible(id WidgetID, visible bool)
}

// FieldSpec describes a field to the UI layer when it is built.
type FieldSpec struct {
	Label string
	Kind  value.Kind

	// Numeric hints for float fields. The UI clamps user input to
	// [Min, Max] and nudges by Step; the router never clamps.
	Min, Max, Step float32
}

// Builder allocates widgets for sections.
type Builder interface {
	Container(title string) WidgetID
	Field(container WidgetID, spec FieldSpec) WidgetID
}

// CommandSink accepts proposed commands.
type CommandSink interface {
	Send(cmd command.Command) error
}

// SelectionProvider supplies the handle of the node being edited.
type SelectionProvider interface {
	Selected() (scene.Handle, bool)
}

// Resolver turns a handle into the live node.
type Resolver interface {
	Resolve(h scene.Handle) (scene.Node, bool)
}
