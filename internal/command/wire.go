package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/scenepanel/internal/scene"
	"github.com/dshills/scenepanel/internal/value"
)

const opSetProperty = "set_property"

// Marshal encodes a command as JSON:
//
//	{"op":"set_property","target":{"index":0,"generation":1},
//	 "property":"sprite.size","value":{"kind":"float","data":5}}
//
// Floats are written in their shortest float32 form so they decode to the
// identical value.
func Marshal(c Command) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, v)
		}
	}

	set("op", opSetProperty)
	set("target.index", c.Target().Index)
	set("target.generation", c.Target().Generation)
	set("property", string(c.Property()))
	set("value.kind", c.Value().Kind().String())
	if err != nil {
		return nil, err
	}

	switch v := c.Value().(type) {
	case value.Float:
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s is not representable", ErrMalformed, v)
		}
		out, err = sjson.SetRawBytes(out, "value.data", []byte(v.String()))
	case value.Color:
		out, err = sjson.SetBytes(out, "value.data", v.String())
	case value.Text:
		out, err = sjson.SetBytes(out, "value.data", string(v))
	default:
		panic(fmt.Sprintf("command: unhandled value variant %T", v))
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decode parses a command produced by Marshal. The returned command has
// not been executed.
func Decode(data []byte) (Command, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	doc := gjson.ParseBytes(data)

	if op := doc.Get("op").String(); op != opSetProperty {
		return nil, fmt.Errorf("%w: unknown op %q", ErrMalformed, op)
	}

	idx, err := handleField(doc.Get("target.index"))
	if err != nil {
		return nil, fmt.Errorf("%w: target index: %w", ErrMalformed, err)
	}
	gen, err := handleField(doc.Get("target.generation"))
	if err != nil {
		return nil, fmt.Errorf("%w: target generation: %w", ErrMalformed, err)
	}
	h := scene.Handle{Index: idx, Generation: gen}

	prop, err := scene.ParseProperty(doc.Get("property").String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	v, err := DecodeValue(doc.Get("value"))
	if err != nil {
		return nil, err
	}
	if v.Kind() != prop.ValueKind() {
		return nil, fmt.Errorf("%w: %s needs %s", ErrMalformed, prop, prop.ValueKind())
	}
	return NewSetProperty(h, prop, v), nil
}

func handleField(res gjson.Result) (uint32, error) {
	if res.Type != gjson.Number {
		return 0, errors.New("not a number")
	}
	n, err := strconv.ParseUint(res.Raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// DecodeValue parses a {"kind":...,"data":...} object.
func DecodeValue(res gjson.Result) (value.Value, error) {
	kind, err := value.ParseKind(res.Get("kind").String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	data := res.Get("data")
	if !data.Exists() {
		return nil, fmt.Errorf("%w: missing value data", ErrMalformed)
	}

	switch kind {
	case value.KindFloat:
		if data.Type != gjson.Number {
			return nil, fmt.Errorf("%w: float data is %s", ErrMalformed, data.Type)
		}
		f, err := strconv.ParseFloat(data.Raw, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return value.Float(f), nil
	case value.KindColor:
		c, err := value.ParseColor(data.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return c, nil
	case value.KindText:
		return value.Text(data.String()), nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrMalformed, kind)
	}
}
