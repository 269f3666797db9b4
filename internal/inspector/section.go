package inspector

import (
	"fmt"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

// Section is a group of fields shown only for some node variants.
type Section struct {
	Name      string
	Container WidgetID

	applies func(scene.Kind) bool
	fields  []FieldBinding
}

// ForKinds returns a predicate matching the given variants.
func ForKinds(kinds ...scene.Kind) func(scene.Kind) bool {
	return func(k scene.Kind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// AnyKind matches every variant.
func AnyKind(scene.Kind) bool { return true }

// NewSection creates a section. Widget ids must be non-zero and distinct.
func NewSection(name string, container WidgetID, applies func(scene.Kind) bool, fields ...FieldBinding) (*Section, error) {
	if container == 0 {
		return nil, fmt.Errorf("section %s: %w", name, ErrNoWidget)
	}
	seen := map[WidgetID]bool{container: true}
	for _, f := range fields {
		if f.Widget == 0 {
			return nil, fmt.Errorf("section %s field %q: %w", name, f.Spec.Label, ErrNoWidget)
		}
		if seen[f.Widget] {
			return nil, fmt.Errorf("section %s field %q: %w", name, f.Spec.Label, ErrDuplicateWidget)
		}
		seen[f.Widget] = true
	}
	return &Section{
		Name:      name,
		Container: container,
		applies:   applies,
		fields:    fields,
	}, nil
}

// Fields returns the section's bindings in display order.
func (s *Section) Fields() []FieldBinding {
	return s.fields
}

// Binding finds the field bound to id.
func (s *Section) Binding(id WidgetID) (FieldBinding, bool) {
	for _, f := range s.fields {
		if f.Widget == id {
			return f, true
		}
	}
	return FieldBinding{}, false
}

// IsApplicable reports whether the section edits nodes like n.
func (s *Section) IsApplicable(n scene.Node) bool {
	return n != nil && s.applies(n.Kind())
}

// Sync shows the section if it applies to n and pushes every field's value
// into its widget. An inapplicable section is hidden and its fields are
// left untouched.
func (s *Section) Sync(n scene.Node, ui UI) {
	applicable := s.IsApplicable(n)
	ui.SetVisible(s.Container, applicable)
	if !applicable {
		return
	}
	for _, f := range s.fields {
		ui.SetValue(f.Widget, f.Read(n), ToWidget)
	}
}

// Route turns a notification into a command, or reports false when the
// notification is not for this section or changes nothing.
func (s *Section) Route(note ChangeNotification, n scene.Node, h scene.Handle) (command.Command, bool) {
	if !s.IsApplicable(n) {
		return nil, false
	}
	f, ok := s.Binding(note.Widget)
	if !ok {
		return nil, false
	}
	if value.Equal(note.Value, f.Read(n)) {
		return nil, false
	}
	return f.ToCommand(h, note.Value), true
}
