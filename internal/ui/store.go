// Package ui is an in-memory widget layer for the inspector.
//
// A Store owns containers and fields, applies model-to-UI writes, and
// queues ChangeNotifications for the application loop to hand to the
// inspector. Front ends (terminal, remote clients, scripts) read widget
// state from the store and turn user input into Edit calls.
//
// Like the toolkits it stands in for, the store re-broadcasts every applied
// programmatic write as a ToWidget notification. Consumers must only act
// on FromWidget notifications.
//
// A Store is not safe for concurrent use.
package ui

import (
	"fmt"
	"math"

	"github.com/dshills/scenepanel/internal/inspector"
	"github.com/dshills/scenepanel/internal/value"
)

// Widget is a snapshot of one widget.
type Widget struct {
	ID      inspector.WidgetID
	Parent  inspector.WidgetID
	Title   string
	Spec    inspector.FieldSpec
	Value   value.Value
	Visible bool
}

// IsContainer reports whether the widget is a section container.
func (w Widget) IsContainer() bool {
	return w.Parent == 0
}

// UpdateKind says what changed in an Update.
type UpdateKind int

const (
	UpdateValue UpdateKind = iota
	UpdateVisibility
)

// Update describes one applied change, for observers.
type Update struct {
	Kind      UpdateKind
	Widget    inspector.WidgetID
	Value     value.Value
	Visible   bool
	Direction inspector.Direction
}

// Store holds widget state.
type Store struct {
	next    inspector.WidgetID
	widgets map[inspector.WidgetID]*Widget
	order   []inspector.WidgetID

	pending []inspector.ChangeNotification
	echo    bool

	observers map[int]func(Update)
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithEcho controls whether programmatic writes are echoed as ToWidget
// notifications. Echo is on by default.
func WithEcho(on bool) Option {
	return func(s *Store) { s.echo = on }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		widgets:   make(map[inspector.WidgetID]*Widget),
		echo:      true,
		observers: make(map[int]func(Update)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Container allocates a hidden section container.
func (s *Store) Container(title string) inspector.WidgetID {
	return s.add(&Widget{Title: title})
}

// Field allocates a field inside container.
func (s *Store) Field(container inspector.WidgetID, spec inspector.FieldSpec) inspector.WidgetID {
	if w, ok := s.widgets[container]; !ok || !w.IsContainer() {
		panic(fmt.Sprintf("ui: field %q added to unknown container %d", spec.Label, container))
	}
	return s.add(&Widget{Parent: container, Title: spec.Label, Spec: spec, Visible: true})
}

func (s *Store) add(w *Widget) inspector.WidgetID {
	s.next++
	w.ID = s.next
	s.widgets[w.ID] = w
	s.order = append(s.order, w.ID)
	return w.ID
}

// SetValue writes v into a field. Programmatic writes are echoed when echo
// is enabled; FromWidget writes are queued like user edits.
func (s *Store) SetValue(id inspector.WidgetID, v value.Value, dir inspector.Direction) {
	w, ok := s.widgets[id]
	if !ok || w.IsContainer() {
		return
	}
	w.Value = v
	s.notify(Update{Kind: UpdateValue, Widget: id, Value: v, Direction: dir})
	if dir == inspector.FromWidget || s.echo {
		s.pending = append(s.pending, inspector.ChangeNotification{Widget: id, Value: v, Direction: dir})
	}
}

// SetVisible shows or hides a container.
func (s *Store) SetVisible(id inspector.WidgetID, visible bool) {
	w, ok := s.widgets[id]
	if !ok {
		return
	}
	w.Visible = visible
	s.notify(Update{Kind: UpdateVisibility, Widget: id, Visible: visible})
}

// Edit applies a user edit: the field shows v and a FromWidget
// notification is queued. Floats are clamped to the field's range; NaN
// becomes the minimum.
func (s *Store) Edit(id inspector.WidgetID, v value.Value) error {
	w, err := s.editable(id)
	if err != nil {
		return err
	}
	if v == nil || v.Kind() != w.Spec.Kind {
		return fmt.Errorf("%w: %q takes %s", ErrWrongKind, w.Title, w.Spec.Kind)
	}
	if f, ok := v.(value.Float); ok {
		v = clamp(f, w.Spec)
	}
	s.SetValue(id, v, inspector.FromWidget)
	return nil
}

// EditText parses text for the field's kind and applies it as an edit.
func (s *Store) EditText(id inspector.WidgetID, text string) error {
	w, err := s.editable(id)
	if err != nil {
		return err
	}
	v, err := value.Parse(w.Spec.Kind, text)
	if err != nil {
		return err
	}
	return s.Edit(id, v)
}

// Nudge moves a float field by steps times its step size.
func (s *Store) Nudge(id inspector.WidgetID, steps int) error {
	w, err := s.editable(id)
	if err != nil {
		return err
	}
	cur, ok := w.Value.(value.Float)
	if !ok || w.Spec.Step == 0 {
		return fmt.Errorf("%w: %q cannot be nudged", ErrWrongKind, w.Title)
	}
	return s.Edit(id, cur+value.Float(float32(steps)*w.Spec.Step))
}

func (s *Store) editable(id inspector.WidgetID) (*Widget, error) {
	w, ok := s.widgets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWidget, id)
	}
	if w.IsContainer() {
		return nil, fmt.Errorf("%w: %q is a container", ErrNotEditable, w.Title)
	}
	if !s.Visible(id) {
		return nil, fmt.Errorf("%w: %q is hidden", ErrNotEditable, w.Title)
	}
	return w, nil
}

func clamp(f value.Float, spec inspector.FieldSpec) value.Float {
	if spec.Step == 0 {
		return f
	}
	if math.IsNaN(float64(f)) || f < value.Float(spec.Min) {
		return value.Float(spec.Min)
	}
	if f > value.Float(spec.Max) {
		return value.Float(spec.Max)
	}
	return f
}

// Poll returns and clears queued notifications in arrival order.
func (s *Store) Poll() []inspector.ChangeNotification {
	out := s.pending
	s.pending = nil
	return out
}

// Pending returns the number of queued notifications.
func (s *Store) Pending() int {
	return len(s.pending)
}

// Widget returns a snapshot of one widget.
func (s *Store) Widget(id inspector.WidgetID) (Widget, bool) {
	w, ok := s.widgets[id]
	if !ok {
		return Widget{}, false
	}
	return *w, true
}

// Visible reports whether a widget and its container are shown.
func (s *Store) Visible(id inspector.WidgetID) bool {
	w, ok := s.widgets[id]
	if !ok || !w.Visible {
		return false
	}
	if w.IsContainer() {
		return true
	}
	return s.Visible(w.Parent)
}

// Widgets returns snapshots of every widget in creation order.
func (s *Store) Widgets() []Widget {
	out := make([]Widget, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.widgets[id])
	}
	return out
}

// VisibleFields returns the fields currently shown, in creation order.
func (s *Store) VisibleFields() []Widget {
	var out []Widget
	for _, id := range s.order {
		w := s.widgets[id]
		if !w.IsContainer() && s.Visible(id) {
			out = append(out, *w)
		}
	}
	return out
}

// FindField returns the first field with the given label in the container
// with the given title. An empty title matches any container.
func (s *Store) FindField(container, label string) (inspector.WidgetID, bool) {
	for _, id := range s.order {
		w := s.widgets[id]
		if w.IsContainer() || w.Title != label {
			continue
		}
		if container == "" || s.widgets[w.Parent].Title == container {
			return id, true
		}
	}
	return 0, false
}

// Subscribe registers fn for every applied change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Update)) func() {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *Store) notify(u Update) {
	for _, fn := range s.observers {
		fn(u)
	}
}
