package inspector

import (
	"math"

	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

// Float fields accept [0, MaxFloat32] in steps of 0.1.
const (
	floatMin  = 0
	floatMax  = math.MaxFloat32
	floatStep = 0.1
)

func floatSpec(label string) FieldSpec {
	return FieldSpec{Label: label, Kind: value.KindFloat, Min: floatMin, Max: floatMax, Step: floatStep}
}

type fieldDef struct {
	spec FieldSpec
	prop scene.Property
}

func buildSection(b Builder, name string, applies func(scene.Kind) bool, defs ...fieldDef) *Section {
	container := b.Container(name)
	fields := make([]FieldBinding, len(defs))
	for i, d := range defs {
		fields[i] = BindProperty(b.Field(container, d.spec), d.spec, d.prop)
	}
	s, err := NewSection(name, container, applies, fields...)
	if err != nil {
		// The builder hands out fresh ids, so this is a builder bug.
		panic(err)
	}
	return s
}

// NewCommonSection edits the properties every node has.
func NewCommonSection(b Builder) *Section {
	return buildSection(b, "Node", AnyKind,
		fieldDef{FieldSpec{Label: "Name", Kind: value.KindText}, scene.PropName},
	)
}

// NewSpriteSection edits sprite size, rotation and color.
func NewSpriteSection(b Builder) *Section {
	return buildSection(b, "Sprite", ForKinds(scene.KindSprite),
		fieldDef{floatSpec("Size"), scene.PropSpriteSize},
		fieldDef{floatSpec("Rotation"), scene.PropSpriteRotation},
		fieldDef{FieldSpec{Label: "Color", Kind: value.KindColor}, scene.PropSpriteColor},
	)
}

// NewLightSection edits light radius, intensity and color.
func NewLightSection(b Builder) *Section {
	return buildSection(b, "Light", ForKinds(scene.KindLight),
		fieldDef{floatSpec("Radius"), scene.PropLightRadius},
		fieldDef{floatSpec("Intensity"), scene.PropLightIntensity},
		fieldDef{FieldSpec{Label: "Color", Kind: value.KindColor}, scene.PropLightColor},
	)
}

// DefaultSections builds every section in display order.
func DefaultSections(b Builder) []*Section {
	return []*Section{
		NewCommonSection(b),
		NewSpriteSection(b),
		NewLightSection(b),
	}
}
