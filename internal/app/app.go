package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/sjson"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/config"
	"github.com/dshills/scenepanel/internal/history"
	"github.com/dshills/scenepanel/internal/inspector"
	"github.com/dshills/scenepanel/internal/remote"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/script"
	"github.com/dshills/scenepanel/internal/sink"
	"github.com/dshills/scenepanel/internal/ui"
	"github.com/dshills/scenepanel/internal/ui/term"
	"github.com/dshills/scenepanel/internal/watch"
)

// Options configures an App.
type Options struct {
	Config config.Config
	// Graph is the scene to inspect. When nil the scene is loaded from
	// Config.Scene.Path, or starts empty when no path is set.
	Graph *scene.Graph
	// Screen enables the terminal front end. Nil runs headless.
	Screen tcell.Screen
	Logger *slog.Logger
}

// App owns the scene graph and everything that reads or proposes changes
// to it. All methods must be called from the goroutine running the loop.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	graph     *scene.Graph
	selection *Selection
	store     *ui.Store
	panel     *inspector.Panel
	sink      *sink.Sink
	sender    sink.Sender

	view    *term.View
	hub     *remote.Hub
	server  *remote.Server
	watcher *watch.Watcher
	script  *script.Engine

	dirty       bool
	unsubscribe func()
}

// New builds an App. It does not start any background work; see Run.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	graph := opts.Graph
	if graph == nil {
		graph = scene.NewGraph()
		if cfg.Scene.Path != "" {
			g, err := scene.LoadGraph(cfg.Scene.Path)
			if err != nil {
				return nil, NewOperationError("load", cfg.Scene.Path, err)
			}
			graph = g
		}
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		graph:     graph,
		selection: NewSelection(graph),
		store:     ui.NewStore(),
		hub:       remote.NewHub(WithComponent(logger, "remote")),
	}

	a.sink = sink.New(history.New(cfg.History.MaxEntries),
		sink.WithQueueSize(cfg.Sink.QueueSize),
		sink.WithLogger(WithComponent(logger, "sink")),
		sink.WithObserver(a.announce),
	)
	a.sender = a.sink.Sender()

	a.panel = inspector.NewPanel(a.store, a.sender, a.selection, a.graph,
		inspector.WithLogger(WithComponent(logger, "inspector")))
	if err := a.panel.Register(inspector.DefaultSections(a.store)...); err != nil {
		return nil, err
	}
	a.unsubscribe = a.store.Subscribe(func(ui.Update) { a.dirty = true })

	if opts.Screen != nil {
		var viewOpts []term.Option
		if accent, err := cfg.Theme.AccentColor(); err == nil {
			viewOpts = append(viewOpts, term.WithAccent(accent))
		}
		a.view = term.New(opts.Screen, a.store, viewOpts...)
	}

	a.script = script.New(a, script.WithLogger(WithComponent(logger, "script")))

	a.panel.Sync()
	if err := a.Pump(); err != nil {
		return nil, err
	}
	return a, nil
}

// Graph returns the scene graph.
func (a *App) Graph() *scene.Graph { return a.graph }

// Store returns the widget store.
func (a *App) Store() *ui.Store { return a.store }

// Selection returns the selection.
func (a *App) Selection() *Selection { return a.selection }

// History returns the undo history.
func (a *App) History() *history.History { return a.sink.History() }

// Hub returns the remote hub.
func (a *App) Hub() *remote.Hub { return a.hub }

// Pump routes every queued UI notification, applies queued commands and
// re-syncs the panel until the store is quiet. A returned error wraps
// inspector.ErrSessionEnded and ends the session.
func (a *App) Pump() error {
	for {
		for _, note := range a.store.Poll() {
			if err := a.panel.HandleNotification(note); err != nil {
				return err
			}
		}

		res, err := a.sink.Drain(a.graph)
		if err != nil {
			a.logger.Error("applying commands", "error", err)
			a.showError(err)
		}
		if res.Changed() {
			a.panel.Sync()
		}

		if a.store.Pending() == 0 {
			break
		}
	}
	a.refresh()
	return nil
}

// Undo asks the sink to undo the last change and applies it.
func (a *App) Undo() error {
	if err := a.sender.Undo(); err != nil {
		return fmt.Errorf("%w: undo: %w", inspector.ErrSessionEnded, err)
	}
	return a.Pump()
}

// Redo asks the sink to redo the last undone change and applies it.
func (a *App) Redo() error {
	if err := a.sender.Redo(); err != nil {
		return fmt.Errorf("%w: redo: %w", inspector.ErrSessionEnded, err)
	}
	return a.Pump()
}

// SelectHandle makes h current and re-syncs.
func (a *App) SelectHandle(h scene.Handle) error {
	a.selection.Set(h)
	a.panel.Sync()
	return a.Pump()
}

// SelectName selects the first node with the given name.
func (a *App) SelectName(name string) error {
	h, ok := a.graph.FindByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchNode, name)
	}
	return a.SelectHandle(h)
}

// EditField enters text into the visible field with the given section
// title and label, as a user would.
func (a *App) EditField(section, label, text string) error {
	id, ok := a.store.FindField(section, label)
	if !ok || !a.store.Visible(id) {
		return fmt.Errorf("%w: %s/%s", ErrNoSuchField, section, label)
	}
	if err := a.store.EditText(id, text); err != nil {
		return err
	}
	return a.Pump()
}

// FieldText returns what a visible field shows.
func (a *App) FieldText(section, label string) (string, bool) {
	id, ok := a.store.FindField(section, label)
	if !ok || !a.store.Visible(id) {
		return "", false
	}
	w, _ := a.store.Widget(id)
	if w.Value == nil {
		return "", true
	}
	return w.Value.String(), true
}

// Reload re-reads the scene file and merges it into the graph by node id.
func (a *App) Reload() error {
	path := a.cfg.Scene.Path
	if path == "" {
		return nil
	}
	doc, err := scene.LoadFile(path)
	if err != nil {
		return NewOperationError("reload", path, err)
	}
	nodes, err := doc.Build()
	if err != nil {
		return NewOperationError("reload", path, err)
	}

	res := a.graph.Merge(nodes)
	a.logger.Info("scene reloaded", "path", path,
		"added", res.Added, "updated", res.Updated, "removed", res.Removed)
	if !res.Changed() {
		return nil
	}
	a.selection.Repair()
	a.panel.Sync()
	return a.Pump()
}

// RunScript runs a Lua file against the app.
func (a *App) RunScript(ctx context.Context, path string) error {
	return a.script.RunFile(ctx, path)
}

// RunScriptString runs a Lua chunk against the app.
func (a *App) RunScriptString(ctx context.Context, name, code string) error {
	return a.script.Run(ctx, name, code)
}

// Close stops background work and ends the session. Later sends fail with
// ErrClosed.
func (a *App) Close() {
	a.sink.Close()
	a.script.Close()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
}

// Run starts the configured front ends and runs the loop until ctx ends,
// the user quits, or the session ends.
func (a *App) Run(ctx context.Context) error {
	var (
		keys      <-chan tcell.Event
		changes   <-chan watch.Change
		watchErrs <-chan error
		served    <-chan error
	)

	if a.view != nil {
		if err := a.view.Init(); err != nil {
			return NewOperationError("init", "terminal", err)
		}
		defer a.view.Fini()
		keys = a.view.Events()
	}

	if a.cfg.Scene.Watch && a.cfg.Scene.Path != "" {
		w, err := watch.New(a.cfg.Scene.Path, watch.WithLogger(WithComponent(a.logger, "watch")))
		if err != nil {
			return NewOperationError("watch", a.cfg.Scene.Path, err)
		}
		a.watcher = w
		changes, watchErrs = w.Changes(), w.Errors()
	}

	if a.cfg.Remote.Listen != "" {
		a.server = remote.NewServer(a.hub, WithComponent(a.logger, "remote"))
		if err := a.server.Start(a.cfg.Remote.Listen); err != nil {
			return NewOperationError("listen", a.cfg.Remote.Listen, err)
		}
		served = a.server.Done()
	}

	a.draw()
	for {
		var err error
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			err = a.handleEvent(ev)

		case req := <-a.hub.Requests():
			err = a.handleRequest(req)

		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			err = a.handleChange(c)

		case werr, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			a.logger.Warn("scene watcher", "error", werr)

		case serr := <-served:
			served = nil
			if serr != nil {
				a.logger.Error("remote server stopped", "error", serr)
			}
		}

		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		a.draw()
	}
}

func (a *App) handleEvent(ev tcell.Event) error {
	switch a.view.HandleEvent(ev) {
	case term.ActionQuit:
		return ErrQuit
	case term.ActionUndo:
		return a.Undo()
	case term.ActionRedo:
		return a.Redo()
	case term.ActionSelectNext:
		a.selection.Next()
		a.panel.Sync()
	case term.ActionSelectPrev:
		a.selection.Prev()
		a.panel.Sync()
	}
	return a.Pump()
}

// handleRequest serves one remote client request. Only a fatal error is
// returned; the client gets every error as its reply.
func (a *App) handleRequest(req remote.Request) error {
	var err error
	switch req.Type {
	case remote.TypeEdit:
		err = a.EditField(req.Section, req.Label, req.Value)
	case remote.TypeSelect:
		err = a.SelectName(req.Node)
	case remote.TypeUndo:
		err = a.Undo()
	case remote.TypeRedo:
		err = a.Redo()
	default:
		err = fmt.Errorf("unsupported request %q", req.Type)
	}
	req.Reply(err)
	if errors.Is(err, inspector.ErrSessionEnded) {
		return err
	}
	if err != nil {
		a.logger.Debug("remote request rejected", "client", req.Client, "type", req.Type, "error", err)
	}
	return nil
}

func (a *App) handleChange(c watch.Change) error {
	if c.Removed {
		a.logger.Warn("scene file removed; keeping current scene", "path", c.Path)
		return nil
	}
	err := a.Reload()
	if errors.Is(err, inspector.ErrSessionEnded) {
		return err
	}
	if err != nil {
		a.logger.Error("scene reload failed", "error", err)
		a.showError(err)
	}
	return nil
}

// announce forwards applied commands to remote clients.
func (a *App) announce(applied sink.Applied) {
	data, err := command.Marshal(applied.Command)
	if err != nil {
		a.logger.Warn("encoding command", "error", err)
		return
	}
	action := "do"
	switch applied.Message.(type) {
	case sink.Undo:
		action = "undo"
	case sink.Redo:
		action = "redo"
	}
	data, err = sjson.SetBytes(data, "action", action)
	if err != nil {
		a.logger.Warn("encoding command", "error", err)
		return
	}
	a.hub.Announce(data)
}

// refresh pushes state to the front ends after the store changed.
func (a *App) refresh() {
	state := a.state()
	if a.view != nil {
		a.view.SetTitle(term.Describe(state.Selection, state.Kind))
		a.view.SetStatus(a.status())
	}
	if a.dirty {
		a.dirty = false
		a.hub.Publish(state)
	}
}

func (a *App) state() remote.StateData {
	state := remote.StateData{Sections: remote.Snapshot(a.store)}
	if n, ok := a.selection.Node(); ok {
		state.Selection = n.Common().Name
		state.Kind = n.Kind().String()
	}
	hist := a.sink.History()
	if e, ok := hist.PeekUndo(); ok {
		state.Undo = e.Description
	}
	if e, ok := hist.PeekRedo(); ok {
		state.Redo = e.Description
	}
	return state
}

func (a *App) status() string {
	hist := a.sink.History()
	status := fmt.Sprintf("%d node(s)  [ ] select  Tab move  Enter edit  Ctrl+Z/Y undo/redo  q quit", a.graph.Len())
	if info := hist.UndoInfo(); len(info) > 0 {
		last := info[len(info)-1]
		status = fmt.Sprintf("undo %d: %s  |  %s", len(info), last.Description, status)
	}
	return status
}

func (a *App) showError(err error) {
	if a.view != nil {
		a.view.SetError(err)
	}
}

func (a *App) draw() {
	if a.view != nil {
		a.view.Draw()
	}
}
