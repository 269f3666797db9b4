package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	nodes    []string
	selected string
	fields   map[string]string
	calls    []string
	editErr  error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		nodes:  []string{"hero", "lamp"},
		fields: map[string]string{"Sprite/Size": "1"},
	}
}

func (h *fakeHost) Nodes() []string { return h.nodes }

func (h *fakeHost) Select(name string) error {
	for _, n := range h.nodes {
		if n == name {
			h.selected = name
			h.calls = append(h.calls, "select "+name)
			return nil
		}
	}
	return fmt.Errorf("%w: no node %q", ErrUsage, name)
}

func (h *fakeHost) Edit(section, label, text string) error {
	if h.editErr != nil {
		return h.editErr
	}
	key := section + "/" + label
	if _, ok := h.fields[key]; !ok {
		return fmt.Errorf("%w: no field %s", ErrUsage, key)
	}
	h.fields[key] = text
	h.calls = append(h.calls, "edit "+key+"="+text)
	return nil
}

func (h *fakeHost) Get(section, label string) (string, bool) {
	v, ok := h.fields[section+"/"+label]
	return v, ok
}

func (h *fakeHost) Undo() error { h.calls = append(h.calls, "undo"); return nil }
func (h *fakeHost) Redo() error { h.calls = append(h.calls, "redo"); return nil }

func TestRunDrivesHost(t *testing.T) {
	h := newFakeHost()
	e := New(h)
	defer e.Close()

	err := e.Run(context.Background(), "test", `
		local names = scene.nodes()
		assert(#names == 2)
		scene.select(names[1])
		scene.edit("Sprite", "Size", 5)
		scene.edit("Sprite", "Size", "7.5")
		assert(scene.get("Sprite", "Size") == "7.5")
		assert(scene.get("Sprite", "Missing") == nil)
		scene.undo()
		scene.redo()
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"select hero",
		"edit Sprite/Size=5",
		"edit Sprite/Size=7.5",
		"undo",
		"redo",
	}, h.calls)
}

func TestUsageErrorsCanBeCaught(t *testing.T) {
	h := newFakeHost()
	e := New(h)
	defer e.Close()

	err := e.Run(context.Background(), "test", `
		local ok, msg = pcall(scene.select, "ghost")
		assert(not ok)
		assert(string.find(msg, "ghost"))
	`)
	require.NoError(t, err)

	err = e.Run(context.Background(), "test", `scene.select("ghost")`)
	assert.ErrorIs(t, err, ErrScript)
}

func TestFatalHostErrorEndsScript(t *testing.T) {
	sessionEnded := errors.New("session ended")
	h := newFakeHost()
	h.editErr = sessionEnded
	e := New(h)
	defer e.Close()

	err := e.Run(context.Background(), "test", `
		pcall(scene.edit, "Sprite", "Size", 2)
		scene.undo()
	`)
	assert.ErrorIs(t, err, sessionEnded)
	assert.NotContains(t, h.calls, "undo")
}

func TestSandbox(t *testing.T) {
	e := New(newFakeHost())
	defer e.Close()

	for _, code := range []string{
		`os.exit(1)`,
		`io.write("x")`,
		`dofile("/etc/passwd")`,
		`require("os")`,
		`load("return 1")()`,
	} {
		err := e.Run(context.Background(), "sandbox", code)
		assert.ErrorIs(t, err, ErrScript, code)
	}
}

func TestSyntaxError(t *testing.T) {
	e := New(newFakeHost())
	defer e.Close()
	assert.ErrorIs(t, e.Run(context.Background(), "bad", `scene.edit(`), ErrScript)
}

func TestTimeout(t *testing.T) {
	e := New(newFakeHost(), WithTimeout(50*time.Millisecond))
	defer e.Close()

	err := e.Run(context.Background(), "spin", `while true do end`)
	require.ErrorIs(t, err, ErrScript)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPrintLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := New(newFakeHost(), WithLogger(logger))
	defer e.Close()

	require.NoError(t, e.Run(context.Background(), "p", `print("hello", 42)`))
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "source=lua")
}

func TestRunFileAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.lua")
	require.NoError(t, os.WriteFile(path, []byte(`scene.edit("Sprite", "Size", 3)`), 0o644))

	h := newFakeHost()
	e := New(h)
	require.NoError(t, e.RunFile(context.Background(), path))
	assert.Equal(t, "3", h.fields["Sprite/Size"])

	e.Close()
	assert.ErrorIs(t, e.Run(context.Background(), "after", ``), ErrClosed)
}
