package inspector

import (
	"fmt"
	"log/slog"
)

// Panel binds sections to a UI, a command sink and the current selection.
//
// A Panel holds no node pointers. Every Sync and HandleNotification asks the
// selection provider for a handle and resolves it, so changes made by the
// sink or by a scene reload between calls are always seen.
type Panel struct {
	ui        UI
	sink      CommandSink
	selection SelectionProvider
	scene     Resolver

	sections []*Section
	widgets  map[WidgetID]*Section

	sync   SyncEngine
	router EditRouter
	logger *slog.Logger
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithLogger sets the panel's logger.
func WithLogger(l *slog.Logger) PanelOption {
	return func(p *Panel) {
		p.logger = l
	}
}

// NewPanel creates a panel with no sections.
func NewPanel(ui UI, sink CommandSink, selection SelectionProvider, scene Resolver, opts ...PanelOption) *Panel {
	p := &Panel{
		ui:        ui,
		sink:      sink,
		selection: selection,
		scene:     scene,
		widgets:   make(map[WidgetID]*Section),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = orDiscard(p.logger)
	p.sync = NewSyncEngine(p.logger.With("component", "sync"))
	p.router = NewEditRouter(p.logger.With("component", "router"))
	return p
}

// Register adds sections in routing order. No widget may belong to two
// sections; on conflict nothing is registered.
func (p *Panel) Register(sections ...*Section) error {
	claimed := make(map[WidgetID]*Section)
	claim := func(id WidgetID, s *Section) error {
		if owner, ok := p.widgets[id]; ok {
			return fmt.Errorf("section %s: widget %d owned by %s: %w", s.Name, id, owner.Name, ErrDuplicateWidget)
		}
		if owner, ok := claimed[id]; ok {
			return fmt.Errorf("section %s: widget %d owned by %s: %w", s.Name, id, owner.Name, ErrDuplicateWidget)
		}
		claimed[id] = s
		return nil
	}

	for _, s := range sections {
		if err := claim(s.Container, s); err != nil {
			return err
		}
		for _, f := range s.Fields() {
			if err := claim(f.Widget, s); err != nil {
				return err
			}
		}
	}

	for id, s := range claimed {
		p.widgets[id] = s
	}
	p.sections = append(p.sections, sections...)
	return nil
}

// Sections returns the registered sections in routing order.
func (p *Panel) Sections() []*Section {
	return p.sections
}

// Owns reports whether id belongs to one of the panel's sections.
func (p *Panel) Owns(id WidgetID) bool {
	_, ok := p.widgets[id]
	return ok
}

// Sync projects the selected node into the UI. With no live selection every
// section is hidden.
func (p *Panel) Sync() {
	h, ok := p.selection.Selected()
	if !ok {
		p.sync.SyncAll(nil, p.sections, p.ui)
		return
	}
	n, ok := p.scene.Resolve(h)
	if !ok {
		p.logger.Debug("selection does not resolve", "handle", h)
		p.sync.SyncAll(nil, p.sections, p.ui)
		return
	}
	p.sync.SyncAll(n, p.sections, p.ui)
}

// HandleNotification routes one UI notification. The returned error wraps
// ErrSessionEnded and is fatal for the panel.
func (p *Panel) HandleNotification(note ChangeNotification) error {
	if note.Direction != FromWidget || !p.Owns(note.Widget) {
		return nil
	}
	h, ok := p.selection.Selected()
	if !ok {
		return nil
	}
	n, ok := p.scene.Resolve(h)
	if !ok {
		p.logger.Debug("edit for stale selection dropped", "handle", h, "widget", note.Widget)
		return nil
	}
	return p.router.OnNotification(note, n, h, p.sections, p.sink)
}
