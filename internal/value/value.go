// Package value defines the property values carried between scene nodes,
// inspector fields and commands.
//
// Value is a closed sum type: Float, Color and Text are the only
// implementations. Equality is exact. Two floats that differ in the last
// bit are different values, and NaN never equals anything, so an edit that
// round-trips through a widget's text formatting may still produce a command.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	// KindFloat is a 32-bit floating point scalar.
	KindFloat Kind = iota
	// KindColor is an 8-bit-per-channel RGBA color.
	KindColor
	// KindText is a UTF-8 string.
	KindText
)

// String returns the kind name used in scene files and on the wire.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindColor:
		return "color"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "float":
		return KindFloat, nil
	case "color":
		return KindColor, nil
	case "text":
		return KindText, nil
	default:
		return 0, fmt.Errorf("%w: kind %q", ErrParse, s)
	}
}

// Value is a property value.
type Value interface {
	Kind() Kind
	String() string

	// value restricts implementations to this package.
	value()
}

// Float is a scalar property value.
type Float float32

func (Float) Kind() Kind { return KindFloat }
func (Float) value()     {}

// String formats the float with the shortest representation that parses
// back to the same float32.
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Color is an RGBA color with 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (Color) Kind() Kind { return KindColor }
func (Color) value()     {}

// String returns the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) String() string {
	hex := c.Colorful().Hex()
	if c.A == 255 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, c.A)
}

// Colorful converts the color to a colorful.Color, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// FromColorful converts a colorful.Color to a Color with the given alpha.
func FromColorful(cc colorful.Color, alpha uint8) Color {
	r, g, b := cc.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: alpha}
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: color %q", ErrParse, s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q", ErrParse, s)
	}
	return FromColorful(cc, alpha), nil
}

// Text is a string property value.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) value()     {}

// String returns the text unchanged.
func (t Text) String() string { return string(t) }

// Equal reports whether a and b are the same variant holding the same value.
// There is no tolerance for floats.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Color:
		bv, ok := b.(Color)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	default:
		panic(fmt.Sprintf("value: unhandled variant %T", a))
	}
}

// Parse converts user-entered text into a value of the given kind.
func Parse(kind Kind, s string) (Value, error) {
	switch kind {
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: float %q", ErrParse, s)
		}
		return Float(f), nil
	case KindColor:
		return ParseColor(s)
	case KindText:
		return Text(s), nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrParse, kind)
	}
}
