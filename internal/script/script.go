// Package script runs Lua automation against the inspector.
//
// Scripts drive the same edit path a person does: scene.edit types text
// into a field, and the host turns it into a change notification for the
// inspector. Scripts never touch the scene graph directly.
//
// An Engine is not safe for concurrent use. gopher-lua states are single
// threaded; run scripts from the application loop.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// Host is what scripts can do.
type Host interface {
	// Nodes returns the names of scene nodes in graph order.
	Nodes() []string
	// Select makes the named node current.
	Select(name string) error
	// Edit enters text into a field as if typed.
	Edit(section, label, text string) error
	// Get returns the text a field shows. ok is false for unknown or hidden
	// fields.
	Get(section, label string) (text string, ok bool)
	Undo() error
	Redo() error
}

// Engine is a sandboxed Lua state bound to a Host.
type Engine struct {
	L       *lua.LState
	host    Host
	logger  *slog.Logger
	timeout time.Duration

	hostErr error
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets where print output and diagnostics go.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTimeout bounds each Run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New creates an engine with only the base, table, string and math
// libraries plus the scene table.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:    host,
		logger:  slog.New(slog.DiscardHandler),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(e.luaPrint))
	L.SetGlobal("scene", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"nodes":  e.luaNodes,
		"select": e.luaSelect,
		"edit":   e.luaEdit,
		"get":    e.luaGet,
		"undo":   e.luaUndo,
		"redo":   e.luaRedo,
	}))
	e.L = L
	return e
}

// Run executes a chunk. A host error stops the script and is returned
// unwrapped from Lua, so callers can test it with errors.Is.
func (e *Engine) Run(ctx context.Context, name, code string) (err error) {
	if e.closed {
		return ErrClosed
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()
	e.hostErr = nil

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrScript, name, r)
		}
	}()

	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		if e.hostErr != nil {
			return e.hostErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrScript, name, ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	e.L.SetTop(0)
	return e.hostErr
}

// RunFile reads and executes a script file.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return e.Run(ctx, path, string(code))
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

// fail records a host error and raises it in Lua. Errors that are not
// plain usage mistakes end the script.
func (e *Engine) fail(L *lua.LState, err error) int {
	if e.hostErr != nil {
		err = e.hostErr
	}
	if !errors.Is(err, ErrUsage) {
		e.hostErr = err
	}
	L.RaiseError("%s", err.Error())
	return 0
}

func (e *Engine) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.logger.Info(strings.Join(parts, "\t"), "source", "lua")
	return 0
}

func (e *Engine) luaNodes(L *lua.LState) int {
	t := L.NewTable()
	for _, name := range e.host.Nodes() {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaSelect(L *lua.LState) int {
	if e.hostErr != nil {
		return e.fail(L, e.hostErr)
	}
	name := L.CheckString(1)
	if err := e.host.Select(name); err != nil {
		return e.fail(L, err)
	}
	return 0
}

func (e *Engine) luaEdit(L *lua.LState) int {
	if e.hostErr != nil {
		return e.fail(L, e.hostErr)
	}
	section := L.CheckString(1)
	label := L.CheckString(2)
	var text string
	switch v := L.CheckAny(3).(type) {
	case lua.LNumber, lua.LString:
		text = v.String()
	default:
		L.ArgError(3, "number or string expected")
		return 0
	}
	if err := e.host.Edit(section, label, text); err != nil {
		return e.fail(L, err)
	}
	return 0
}

func (e *Engine) luaGet(L *lua.LState) int {
	text, ok := e.host.Get(L.CheckString(1), L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

func (e *Engine) luaUndo(L *lua.LState) int {
	if e.hostErr != nil {
		return e.fail(L, e.hostErr)
	}
	if err := e.host.Undo(); err != nil {
		return e.fail(L, err)
	}
	return 0
}

func (e *Engine) luaRedo(L *lua.LState) int {
	if e.hostErr != nil {
		return e.fail(L, e.hostErr)
	}
	if err := e.host.Redo(); err != nil {
		return e.fail(L, err)
	}
	return 0
}
