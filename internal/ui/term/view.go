// Package term draws the inspector on a terminal and turns key presses into
// edits on the widget store.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scenepanel/internal/inspector"
	"github.com/dshills/scenepanel/internal/ui"
	"github.com/dshills/scenepanel/internal/value"
)

// Action is a request the view cannot satisfy by editing the store.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionUndo
	ActionRedo
	ActionSelectNext
	ActionSelectPrev
	ActionEdited
)

const labelWidth = 12

// View renders a widget store and edits it from key events.
type View struct {
	screen tcell.Screen
	store  *ui.Store

	focus   inspector.WidgetID
	editing bool
	input   []rune

	title  string
	status string
	err    string

	accent tcell.Color

	startOnce sync.Once
	stop      chan struct{}
}

// Option configures a View.
type Option func(*View)

// WithAccent sets the color used for section titles and the focused field.
func WithAccent(c value.Color) Option {
	return func(v *View) {
		v.accent = tcellColor(c)
	}
}

// New creates a view drawing store on screen.
func New(screen tcell.Screen, store *ui.Store, opts ...Option) *View {
	v := &View{
		screen: screen,
		store:  store,
		accent: tcell.ColorTeal,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init initializes the screen.
func (v *View) Init() error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	v.screen.EnablePaste()
	return nil
}

// Fini restores the terminal and stops event forwarding.
func (v *View) Fini() {
	select {
	case <-v.stop:
	default:
		close(v.stop)
	}
	v.screen.Fini()
}

// Events forwards screen events to a channel until Fini. It starts at most
// one forwarding goroutine.
func (v *View) Events() <-chan tcell.Event {
	ch := make(chan tcell.Event, 16)
	v.startOnce.Do(func() {
		go func() {
			defer close(ch)
			for {
				ev := v.screen.PollEvent()
				if ev == nil {
					return
				}
				select {
				case ch <- ev:
				case <-v.stop:
					return
				}
			}
		}()
	})
	return ch
}

// SetTitle sets the header line.
func (v *View) SetTitle(title string) { v.title = title }

// SetStatus sets the footer line.
func (v *View) SetStatus(status string) { v.status = status }

// SetError shows an error in the footer until the next key press.
func (v *View) SetError(err error) {
	if err == nil {
		v.err = ""
		return
	}
	v.err = err.Error()
}

// Focus returns the focused field.
func (v *View) Focus() inspector.WidgetID {
	v.fixFocus()
	return v.focus
}

// Editing reports whether a field is being typed into.
func (v *View) Editing() bool { return v.editing }

func (v *View) fixFocus() {
	fields := v.store.VisibleFields()
	if len(fields) == 0 {
		v.focus = 0
		v.editing = false
		return
	}
	for _, f := range fields {
		if f.ID == v.focus {
			return
		}
	}
	v.focus = fields[0].ID
	v.editing = false
}

func (v *View) moveFocus(delta int) {
	fields := v.store.VisibleFields()
	if len(fields) == 0 {
		return
	}
	v.fixFocus()
	idx := 0
	for i, f := range fields {
		if f.ID == v.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	v.focus = fields[idx].ID
}

// HandleEvent processes one screen event.
func (v *View) HandleEvent(ev tcell.Event) Action {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return v.HandleKey(e)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return ActionNone
}

// HandleKey processes a key press. Committed text becomes a user edit in
// the store; the store queues the notification.
func (v *View) HandleKey(ev *tcell.EventKey) Action {
	v.err = ""
	v.fixFocus()

	if v.editing {
		return v.handleEditKey(ev)
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyCtrlZ:
		return ActionUndo
	case tcell.KeyCtrlY:
		return ActionRedo
	case tcell.KeyTab, tcell.KeyDown:
		v.moveFocus(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		v.moveFocus(-1)
	case tcell.KeyLeft:
		return v.nudge(-1)
	case tcell.KeyRight:
		return v.nudge(1)
	case tcell.KeyEnter:
		if w, ok := v.store.Widget(v.focus); ok && v.focus != 0 {
			v.editing = true
			v.input = []rune(valueText(w.Value))
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ActionQuit
		case ']':
			return ActionSelectNext
		case '[':
			return ActionSelectPrev
		}
	}
	return ActionNone
}

func (v *View) handleEditKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape:
		v.editing = false
		v.input = nil
	case tcell.KeyEnter:
		text := string(v.input)
		v.editing = false
		v.input = nil
		if err := v.store.EditText(v.focus, text); err != nil {
			v.SetError(err)
			return ActionNone
		}
		return ActionEdited
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.input) > 0 {
			v.input = v.input[:len(v.input)-1]
		}
	case tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		v.input = append(v.input, ev.Rune())
	}
	return ActionNone
}

func (v *View) nudge(steps int) Action {
	w, ok := v.store.Widget(v.focus)
	if !ok || w.Spec.Kind != value.KindFloat || w.Spec.Step == 0 {
		return ActionNone
	}
	if err := v.store.Nudge(v.focus, steps); err != nil {
		v.SetError(err)
		return ActionNone
	}
	return ActionEdited
}

// Draw renders the whole view.
func (v *View) Draw() {
	v.fixFocus()
	v.screen.Clear()
	width, height := v.screen.Size()

	base := tcell.StyleDefault
	titleStyle := base.Foreground(v.accent).Bold(true)
	focusStyle := base.Background(v.accent).Foreground(tcell.ColorBlack)

	drawText(v.screen, 0, 0, width, titleStyle, v.title)

	y := 2
	for _, w := range v.store.Widgets() {
		if y >= height-2 {
			break
		}
		if !v.store.Visible(w.ID) {
			continue
		}
		if w.IsContainer() {
			drawText(v.screen, 1, y, width, titleStyle, "▸ "+w.Title)
			y++
			continue
		}

		style := base
		if w.ID == v.focus {
			style = focusStyle
		}
		drawText(v.screen, 3, y, width, base, w.Title)

		text := valueText(w.Value)
		if w.ID == v.focus && v.editing {
			text = string(v.input) + "_"
		}
		x := drawText(v.screen, 3+labelWidth, y, width, style, text)
		if c, ok := w.Value.(value.Color); ok {
			v.screen.SetContent(x+1, y, '■', nil, base.Foreground(tcellColor(c)))
		}
		y++
	}

	footer := v.status
	footerStyle := base.Dim(true)
	if v.err != "" {
		footer = v.err
		footerStyle = base.Foreground(tcell.ColorRed)
	}
	drawText(v.screen, 0, height-1, width, footerStyle, footer)
	v.screen.Show()
}

func drawText(s tcell.Screen, x, y, maxX int, style tcell.Style, text string) int {
	for _, r := range text {
		if x >= maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func valueText(v value.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func tcellColor(c value.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Describe formats a selection for the title line.
func Describe(name, kind string) string {
	if name == "" {
		return fmt.Sprintf("scenepanel - (%s)", kind)
	}
	return fmt.Sprintf("scenepanel - %s (%s)", name, kind)
}
