// Package scene holds the nodes an inspector edits.
//
// A Node is one of a closed set of variants (Sprite, Light, Pivot). Code
// that depends on the variant uses an exhaustive type switch, so adding a
// variant means visiting every switch in the repository.
//
// Nodes live in a Graph and are addressed by Handle. Holders of a Handle
// resolve it on every use; the Graph may replace or remove a node between
// two uses (undo, scene reload).
package scene

import (
	"github.com/google/uuid"

	"github.com/dshills/scenepanel/internal/value"
)

// Kind is the variant tag of a Node.
type Kind int

const (
	KindPivot Kind = iota
	KindSprite
	KindLight
)

// Kinds lists every variant in declaration order.
var Kinds = []Kind{KindPivot, KindSprite, KindLight}

func (k Kind) String() string {
	switch k {
	case KindPivot:
		return "pivot"
	case KindSprite:
		return "sprite"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, ErrUnknownKind
}

// Node is a scene node variant.
type Node interface {
	Kind() Kind
	Common() *Base

	// node restricts implementations to this package.
	node()
}

// Base holds the fields every variant has.
type Base struct {
	ID   uuid.UUID
	Name string
}

// Common returns the shared fields.
func (b *Base) Common() *Base { return b }

// Sprite is a camera-facing textured quad.
type Sprite struct {
	Base
	Size     float32
	Rotation float32
	Color    value.Color
}

func (*Sprite) Kind() Kind { return KindSprite }
func (*Sprite) node()      {}

// Light is a point light.
type Light struct {
	Base
	Radius    float32
	Intensity float32
	Color     value.Color
}

func (*Light) Kind() Kind { return KindLight }
func (*Light) node()      {}

// Pivot is an empty transform node with no properties of its own.
type Pivot struct {
	Base
}

func (*Pivot) Kind() Kind { return KindPivot }
func (*Pivot) node()      {}

// NewSprite returns a sprite with unit size and white color.
func NewSprite(name string) *Sprite {
	return &Sprite{
		Base:  Base{ID: uuid.New(), Name: name},
		Size:  1,
		Color: value.RGB(255, 255, 255),
	}
}

// NewLight returns a white light of radius 10 and intensity 1.
func NewLight(name string) *Light {
	return &Light{
		Base:      Base{ID: uuid.New(), Name: name},
		Radius:    10,
		Intensity: 1,
		Color:     value.RGB(255, 255, 255),
	}
}

// NewPivot returns an empty node.
func NewPivot(name string) *Pivot {
	return &Pivot{Base: Base{ID: uuid.New(), Name: name}}
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Sprite:
		c := *v
		return &c
	case *Light:
		c := *v
		return &c
	case *Pivot:
		c := *v
		return &c
	default:
		panic("scene: unhandled node variant")
	}
}
