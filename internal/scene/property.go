package scene

import (
	"fmt"

	"github.com/dshills/scenepanel/internal/value"
)

// Property names an editable property of a node.
type Property string

const (
	PropName           Property = "node.name"
	PropSpriteSize     Property = "sprite.size"
	PropSpriteRotation Property = "sprite.rotation"
	PropSpriteColor    Property = "sprite.color"
	PropLightRadius    Property = "light.radius"
	PropLightIntensity Property = "light.intensity"
	PropLightColor     Property = "light.color"
)

// Properties lists every known property.
var Properties = []Property{
	PropName,
	PropSpriteSize,
	PropSpriteRotation,
	PropSpriteColor,
	PropLightRadius,
	PropLightIntensity,
	PropLightColor,
}

// ParseProperty validates a property name.
func ParseProperty(s string) (Property, error) {
	for _, p := range Properties {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProperty, s)
}

// ValueKind returns the kind of value the property holds.
func (p Property) ValueKind() value.Kind {
	switch p {
	case PropName:
		return value.KindText
	case PropSpriteColor, PropLightColor:
		return value.KindColor
	default:
		return value.KindFloat
	}
}

// AppliesTo reports whether nodes of kind k have the property.
func (p Property) AppliesTo(k Kind) bool {
	switch p {
	case PropName:
		return true
	case PropSpriteSize, PropSpriteRotation, PropSpriteColor:
		return k == KindSprite
	case PropLightRadius, PropLightIntensity, PropLightColor:
		return k == KindLight
	default:
		return false
	}
}

// Get reads property p of n.
func Get(n Node, p Property) (value.Value, error) {
	if p == PropName {
		return value.Text(n.Common().Name), nil
	}

	switch v := n.(type) {
	case *Sprite:
		switch p {
		case PropSpriteSize:
			return value.Float(v.Size), nil
		case PropSpriteRotation:
			return value.Float(v.Rotation), nil
		case PropSpriteColor:
			return v.Color, nil
		}
	case *Light:
		switch p {
		case PropLightRadius:
			return value.Float(v.Radius), nil
		case PropLightIntensity:
			return value.Float(v.Intensity), nil
		case PropLightColor:
			return v.Color, nil
		}
	case *Pivot:
	default:
		panic("scene: unhandled node variant")
	}
	return nil, fmt.Errorf("%w: %s has no %s", ErrPropertyMismatch, n.Kind(), p)
}

// Set writes v into property p of n.
func Set(n Node, p Property, v value.Value) error {
	if v == nil || v.Kind() != p.ValueKind() {
		return fmt.Errorf("%w: %s wants %s", ErrValueKind, p, p.ValueKind())
	}
	if !p.AppliesTo(n.Kind()) {
		return fmt.Errorf("%w: %s has no %s", ErrPropertyMismatch, n.Kind(), p)
	}

	if p == PropName {
		n.Common().Name = string(v.(value.Text))
		return nil
	}

	switch node := n.(type) {
	case *Sprite:
		switch p {
		case PropSpriteSize:
			node.Size = float32(v.(value.Float))
		case PropSpriteRotation:
			node.Rotation = float32(v.(value.Float))
		case PropSpriteColor:
			node.Color = v.(value.Color)
		}
	case *Light:
		switch p {
		case PropLightRadius:
			node.Radius = float32(v.(value.Float))
		case PropLightIntensity:
			node.Intensity = float32(v.(value.Float))
		case PropLightColor:
			node.Color = v.(value.Color)
		}
	case *Pivot:
	default:
		panic("scene: unhandled node variant")
	}
	return nil
}
