package inspector

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

func newProperties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func makeSprite(size, rotation float32, r, g, b uint8) *scene.Sprite {
	s := scene.NewSprite("prop")
	s.Size = size
	s.Rotation = rotation
	s.Color = value.RGB(r, g, b)
	return s
}

// TestSyncProperties checks sync against arbitrary sprites and lights.
func TestSyncProperties(t *testing.T) {
	properties := newProperties(t)

	properties.Property("after sync every field shows Read(node)", prop.ForAll(
		func(size, rotation float32, r, g, b uint8) bool {
			u := newRecordingUI()
			sec := NewSpriteSection(u)
			s := makeSprite(size, rotation, r, g, b)

			sec.Sync(s, u)
			for _, f := range sec.Fields() {
				if !value.Equal(u.values[f.Widget], f.Read(s)) {
					return false
				}
			}
			return u.visible[sec.Container]
		},
		gen.Float32Range(-1e6, 1e6),
		gen.Float32Range(-1e6, 1e6),
		gen.UInt8(), gen.UInt8(), gen.UInt8(),
	))

	properties.Property("sync twice equals sync once", prop.ForAll(
		func(size, rotation float32, r, g, b uint8) bool {
			u := newRecordingUI()
			sections := DefaultSections(u)
			s := makeSprite(size, rotation, r, g, b)
			engine := NewSyncEngine(nil)

			engine.SyncAll(s, sections, u)
			vals1, vis1 := u.snapshot()
			engine.SyncAll(s, sections, u)
			vals2, vis2 := u.snapshot()

			if len(vals1) != len(vals2) || len(vis1) != len(vis2) {
				return false
			}
			for k, v := range vals1 {
				if !value.Equal(v, vals2[k]) {
					return false
				}
			}
			for k, v := range vis1 {
				if vis2[k] != v {
					return false
				}
			}
			return true
		},
		gen.Float32Range(-1e6, 1e6),
		gen.Float32Range(-1e6, 1e6),
		gen.UInt8(), gen.UInt8(), gen.UInt8(),
	))

	properties.Property("inapplicable sync hides and leaves fields alone", prop.ForAll(
		func(radius, intensity float32) bool {
			u := newRecordingUI()
			sec := NewSpriteSection(u)
			l := scene.NewLight("lamp")
			l.Radius = radius
			l.Intensity = intensity

			sec.Sync(l, u)
			return !u.visible[sec.Container] && len(u.values) == 0
		},
		gen.Float32Range(0, 1e6),
		gen.Float32Range(0, 1e6),
	))

	properties.TestingRun(t)
}

// TestRouteProperties checks the no-op and exactly-one-command laws.
func TestRouteProperties(t *testing.T) {
	properties := newProperties(t)
	h := scene.Handle{Index: 1, Generation: 1}

	properties.Property("equal value never routes", prop.ForAll(
		func(size float32) bool {
			u := newRecordingUI()
			sec := NewSpriteSection(u)
			s := makeSprite(size, 0, 0, 0, 0)
			f := sec.Fields()[0]

			_, ok := sec.Route(ChangeNotification{Widget: f.Widget, Value: f.Read(s), Direction: FromWidget}, s, h)
			return !ok
		},
		gen.Float32Range(-1e6, 1e6),
	))

	properties.Property("different value sends exactly one matching command", prop.ForAll(
		func(current, next float32, which int) bool {
			u := newRecordingUI()
			sections := DefaultSections(u)
			s := makeSprite(current, current, 0, 0, 0)
			f := sections[1].Fields()[which]

			var sent []command.Command
			collect := sinkFunc(func(c command.Command) error {
				sent = append(sent, c)
				return nil
			})
			note := ChangeNotification{Widget: f.Widget, Value: value.Float(next), Direction: FromWidget}
			if err := NewEditRouter(nil).OnNotification(note, s, h, sections, collect); err != nil {
				return false
			}

			if current == next {
				return len(sent) == 0
			}
			want := scene.PropSpriteSize
			if which == 1 {
				want = scene.PropSpriteRotation
			}
			return len(sent) == 1 &&
				sent[0].Property() == want &&
				sent[0].Target() == h &&
				value.Equal(sent[0].Value(), value.Float(next))
		},
		gen.Float32Range(-100, 100),
		gen.Float32Range(-100, 100),
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}
