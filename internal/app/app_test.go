package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scenepanel/internal/config"
	"github.com/dshills/scenepanel/internal/inspector"
	"github.com/dshills/scenepanel/internal/remote"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/script"
	"github.com/dshills/scenepanel/internal/value"
)

type testScene struct {
	graph  *scene.Graph
	hero   *scene.Sprite
	lamp   *scene.Light
	heroH  scene.Handle
	lampH  scene.Handle
	pivotH scene.Handle
}

func newTestScene() testScene {
	g := scene.NewGraph()
	hero := scene.NewSprite("hero")
	hero.Size = 2
	lamp := scene.NewLight("lamp")
	ts := testScene{graph: g, hero: hero, lamp: lamp}
	ts.heroH = g.Add(hero)
	ts.lampH = g.Add(lamp)
	ts.pivotH = g.Add(scene.NewPivot("root"))
	return ts
}

func newTestApp(t *testing.T) (*App, testScene) {
	t.Helper()
	ts := newTestScene()
	a, err := New(Options{Config: config.Default(), Graph: ts.graph})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, ts
}

func TestNewSelectsFirstNode(t *testing.T) {
	a, ts := newTestApp(t)

	h, ok := a.Selection().Selected()
	require.True(t, ok)
	assert.Equal(t, ts.heroH, h)

	text, ok := a.FieldText("Sprite", "Size")
	require.True(t, ok)
	assert.Equal(t, "2", text)
	_, ok = a.FieldText("Light", "Radius")
	assert.False(t, ok, "light section hidden for a sprite")
	assert.Zero(t, a.Store().Pending())
}

func TestEditProducesExactlyOneCommand(t *testing.T) {
	a, ts := newTestApp(t)

	require.NoError(t, a.EditField("Sprite", "Size", "5"))
	assert.Equal(t, float32(5), ts.hero.Size)
	assert.Equal(t, 1, a.History().UndoCount())
	assert.Zero(t, a.Store().Pending(), "sync echoes are consumed without routing")

	require.NoError(t, a.EditField("Sprite", "Size", "5"))
	assert.Equal(t, 1, a.History().UndoCount(), "no-op edit is not a command")

	text, _ := a.FieldText("Sprite", "Size")
	assert.Equal(t, "5", text)
}

func TestStatusShowsUndoDepth(t *testing.T) {
	a, _ := newTestApp(t)
	assert.NotRegexp(t, `^undo`, a.status())

	require.NoError(t, a.EditField("Sprite", "Size", "5"))
	require.NoError(t, a.EditField("Sprite", "Size", "6"))
	assert.Contains(t, a.status(), "undo 2: Set sprite.size to 6")
}

func TestEditIsClampedByTheField(t *testing.T) {
	a, ts := newTestApp(t)
	require.NoError(t, a.EditField("Sprite", "Size", "-3"))
	assert.Equal(t, float32(0), ts.hero.Size)
}

func TestEditErrors(t *testing.T) {
	a, _ := newTestApp(t)
	assert.ErrorIs(t, a.EditField("Light", "Radius", "3"), ErrNoSuchField)
	assert.ErrorIs(t, a.EditField("Sprite", "Size", "big"), value.ErrParse)
	assert.Zero(t, a.History().UndoCount())
}

func TestEditRejectsNaN(t *testing.T) {
	a, ts := newTestApp(t)
	require.NoError(t, a.EditField("Sprite", "Size", "5"))

	for range 2 {
		assert.ErrorIs(t, a.EditField("Sprite", "Size", "NaN"), value.ErrParse)
	}
	assert.Equal(t, 1, a.History().UndoCount())
	assert.Equal(t, float32(5), ts.hero.Size)
	text, _ := a.FieldText("Sprite", "Size")
	assert.Equal(t, "5", text)
}

func TestSelectionFollowsNode(t *testing.T) {
	a, ts := newTestApp(t)

	require.NoError(t, a.SelectName("lamp"))
	_, ok := a.FieldText("Sprite", "Size")
	assert.False(t, ok)
	radius, ok := a.FieldText("Light", "Radius")
	require.True(t, ok)
	assert.Equal(t, "10", radius)

	require.NoError(t, a.EditField("Light", "Radius", "4"))
	assert.Equal(t, float32(4), ts.lamp.Radius)
	assert.Equal(t, float32(2), ts.hero.Size)

	require.NoError(t, a.SelectName("root"))
	name, ok := a.FieldText("Node", "Name")
	require.True(t, ok)
	assert.Equal(t, "root", name)
	_, ok = a.FieldText("Light", "Radius")
	assert.False(t, ok)

	assert.ErrorIs(t, a.SelectName("ghost"), ErrNoSuchNode)
}

func TestUndoRedoResyncs(t *testing.T) {
	a, ts := newTestApp(t)
	require.NoError(t, a.EditField("Sprite", "Size", "5"))

	require.NoError(t, a.Undo())
	assert.Equal(t, float32(2), ts.hero.Size)
	text, _ := a.FieldText("Sprite", "Size")
	assert.Equal(t, "2", text)

	require.NoError(t, a.Redo())
	assert.Equal(t, float32(5), ts.hero.Size)
	text, _ = a.FieldText("Sprite", "Size")
	assert.Equal(t, "5", text)

	require.NoError(t, a.Undo())
	require.NoError(t, a.Undo(), "empty undo is quiet")
}

func TestRenameThroughCommonSection(t *testing.T) {
	a, ts := newTestApp(t)
	require.NoError(t, a.EditField("Node", "Name", "player"))
	assert.Equal(t, "player", ts.hero.Name)
	assert.Equal(t, []string{"player", "lamp", "root"}, a.Nodes())
}

func TestClosedSinkEndsSession(t *testing.T) {
	ts := newTestScene()
	a, err := New(Options{Config: config.Default(), Graph: ts.graph})
	require.NoError(t, err)
	a.Close()

	err = a.EditField("Sprite", "Size", "5")
	assert.ErrorIs(t, err, inspector.ErrSessionEnded)
	assert.ErrorIs(t, a.Undo(), inspector.ErrSessionEnded)
	assert.Equal(t, float32(2), ts.hero.Size)
}

func TestStaleSelectionHidesEverything(t *testing.T) {
	a, ts := newTestApp(t)
	ts.graph.Remove(ts.heroH)
	require.NoError(t, a.SelectHandle(ts.heroH))

	assert.Empty(t, a.Store().VisibleFields())
	assert.ErrorIs(t, a.EditField("Sprite", "Size", "1"), ErrNoSuchField)
}

func TestScriptDrivesEdits(t *testing.T) {
	a, ts := newTestApp(t)

	err := a.RunScriptString(context.Background(), "test", `
		scene.select("lamp")
		scene.edit("Light", "Intensity", 0.5)
		assert(scene.get("Light", "Intensity") == "0.5")
		scene.select("hero")
		scene.edit("Sprite", "Color", "#00ff00")
		scene.undo()
		scene.redo()
		local ok = pcall(scene.edit, "Light", "Radius", 1)
		assert(not ok, "light section is hidden for a sprite")
	`)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), ts.lamp.Intensity)
	assert.Equal(t, value.RGB(0, 255, 0), ts.hero.Color)
	assert.Equal(t, 2, a.History().UndoCount())
}

func TestScriptStopsWhenSessionEnds(t *testing.T) {
	a, _ := newTestApp(t)
	a.sink.Close()

	err := a.RunScriptString(context.Background(), "test", `
		pcall(scene.edit, "Sprite", "Size", 9)
	`)
	assert.ErrorIs(t, err, inspector.ErrSessionEnded)
	assert.NotErrorIs(t, err, script.ErrUsage)
}

func TestRemoteRequests(t *testing.T) {
	a, ts := newTestApp(t)

	require.NoError(t, a.handleRequest(remote.Request{Type: remote.TypeSelect, Node: "lamp"}))
	require.NoError(t, a.handleRequest(remote.Request{Type: remote.TypeEdit, Section: "Light", Label: "Radius", Value: "3"}))
	assert.Equal(t, float32(3), ts.lamp.Radius)

	require.NoError(t, a.handleRequest(remote.Request{Type: remote.TypeEdit, Section: "Sprite", Label: "Size", Value: "3"}),
		"client errors are not fatal")
	require.NoError(t, a.handleRequest(remote.Request{Type: remote.TypeUndo}))
	assert.Equal(t, float32(10), ts.lamp.Radius)

	state := a.Hub().State()
	assert.Equal(t, "lamp", state.Selection)
	assert.Equal(t, "light", state.Kind)
	assert.Equal(t, "Set light.radius to 3", state.Redo)
}

func TestRemoteRequestAfterCloseIsFatal(t *testing.T) {
	a, _ := newTestApp(t)
	a.sink.Close()
	err := a.handleRequest(remote.Request{Type: remote.TypeRedo})
	assert.ErrorIs(t, err, inspector.ErrSessionEnded)
}

const sceneYAML = `nodes:
  - id: 5f0c1f5e-6f3a-4c55-9a6b-1d1f6a0e9e01
    name: hero
    kind: sprite
    size: 2
  - id: 5f0c1f5e-6f3a-4c55-9a6b-1d1f6a0e9e02
    name: lamp
    kind: light
    radius: 8
`

func writeScene(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestReloadMergesAndKeepsSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, path, sceneYAML)

	cfg := config.Default()
	cfg.Scene.Path = path
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	before, _ := a.Selection().Selected()
	text, _ := a.FieldText("Sprite", "Size")
	require.Equal(t, "2", text)

	writeScene(t, path, `nodes:
  - id: 5f0c1f5e-6f3a-4c55-9a6b-1d1f6a0e9e01
    name: hero
    kind: sprite
    size: 6
`)
	require.NoError(t, a.Reload())

	after, _ := a.Selection().Selected()
	assert.Equal(t, before, after, "handle survives a reload")
	text, _ = a.FieldText("Sprite", "Size")
	assert.Equal(t, "6", text)
	assert.Equal(t, []string{"hero"}, a.Nodes())
}

func TestReloadMovesStaleSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, path, sceneYAML)

	cfg := config.Default()
	cfg.Scene.Path = path
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.SelectName("hero"))
	writeScene(t, path, `nodes:
  - id: 5f0c1f5e-6f3a-4c55-9a6b-1d1f6a0e9e02
    name: lamp
    kind: light
    radius: 8
`)
	require.NoError(t, a.Reload())

	n, ok := a.Selection().Node()
	require.True(t, ok)
	assert.Equal(t, "lamp", n.Common().Name)
	text, ok := a.FieldText("Light", "Radius")
	require.True(t, ok)
	assert.Equal(t, "8", text)
}

func TestReloadKeepsUnnamedNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, path, "nodes:\n  - {kind: sprite, size: 3}\n  - {kind: light, name: lamp}\n")

	cfg := config.Default()
	cfg.Scene.Path = path
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	before, ok := a.Selection().Selected()
	require.True(t, ok)
	require.NoError(t, a.EditField("Sprite", "Size", "7"))

	require.NoError(t, a.Reload())

	after, ok := a.Selection().Selected()
	require.True(t, ok)
	assert.Equal(t, before, after, "unnamed node keeps its handle")
	n, _ := a.Selection().Node()
	assert.Equal(t, scene.KindSprite, n.Kind())
	text, _ := a.FieldText("Sprite", "Size")
	assert.Equal(t, "3", text, "file contents win on reload")

	require.NoError(t, a.Undo())
	assert.Equal(t, 0, a.History().UndoCount())
	assert.Equal(t, 1, a.History().RedoCount(), "undo still resolves its target")
}

func TestReloadBadFileKeepsScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, path, sceneYAML)

	cfg := config.Default()
	cfg.Scene.Path = path
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	writeScene(t, path, "nodes: [ {kind: dragon} ]\n")
	var opErr *OperationError
	require.ErrorAs(t, a.Reload(), &opErr)
	assert.Equal(t, "reload", opErr.Op)
	assert.Equal(t, 2, a.Graph().Len())
}

func TestNewFailsOnMissingScene(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(Options{Config: cfg})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
