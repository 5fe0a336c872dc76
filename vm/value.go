package vm

import (
	"fmt"
	"image/color"
	"strconv"
)

// Type tags the kind of value held by a Data.
type Type uint8

const (
	// TypeAny matches every concrete type. It only appears in required
	// inputs, never as the type of a value.
	TypeAny Type = iota
	TypeBool
	TypeU8
	TypeU32
	TypeString
	TypeColor
)

var typeNames = [...]string{
	TypeAny:    "any",
	TypeBool:   "bool",
	TypeU8:     "u8",
	TypeU32:    "u32",
	TypeString: "string",
	TypeColor:  "color",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Accepts reports whether a value of type got satisfies t as a required input.
// Numeric inputs accept both widths because pops coerce between them.
func (t Type) Accepts(got Type) bool {
	switch t {
	case TypeAny:
		return got != TypeAny
	case TypeU8, TypeU32:
		return got == TypeU8 || got == TypeU32
	default:
		return t == got
	}
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// White is returned when sampling with no textures loaded.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with an explicit alpha channel.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NRGBA converts c to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	return fmt.Sprintf("color(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// Data is a single tagged stack value. The zero Data is not a valid value;
// build values with Bool, U8, U32, String or ColorData.
//
// Data is a plain comparable struct: copying it copies the value, and two
// values are equal with == exactly when they carry the same tag and payload.
type Data struct {
	typ Type
	num uint32
	b   bool
	s   string
	c   Color
}

// Bool wraps a boolean.
func Bool(v bool) Data { return Data{typ: TypeBool, b: v} }

// U8 wraps an 8-bit unsigned integer.
func U8(v uint8) Data { return Data{typ: TypeU8, num: uint32(v)} }

// U32 wraps a 32-bit unsigned integer.
func U32(v uint32) Data { return Data{typ: TypeU32, num: v} }

// String wraps a string.
func String(v string) Data { return Data{typ: TypeString, s: v} }

// ColorData wraps a color.
func ColorData(c Color) Data { return Data{typ: TypeColor, c: c} }

// Type returns the value's tag.
func (d Data) Type() Type { return d.typ }

// AsBool returns the boolean payload and whether d is a Bool.
func (d Data) AsBool() (bool, bool) { return d.b, d.typ == TypeBool }

// AsU8 returns the payload and whether d is a U8.
func (d Data) AsU8() (uint8, bool) { return uint8(d.num), d.typ == TypeU8 }

// AsU32 returns the payload and whether d is a U32.
func (d Data) AsU32() (uint32, bool) { return d.num, d.typ == TypeU32 }

// AsString returns the payload and whether d is a String.
func (d Data) AsString() (string, bool) { return d.s, d.typ == TypeString }

// AsColor returns the payload and whether d is a Color.
func (d Data) AsColor() (Color, bool) { return d.c, d.typ == TypeColor }

// numeric returns d widened to 32 bits if it holds either integer type.
func (d Data) numeric() (uint32, bool) {
	switch d.typ {
	case TypeU8, TypeU32:
		return d.num, true
	}
	return 0, false
}

// Literal returns the program text that would push d, where one exists.
func (d Data) Literal() string {
	switch d.typ {
	case TypeBool:
		return strconv.FormatBool(d.b)
	case TypeU8, TypeU32:
		return strconv.FormatUint(uint64(d.num), 10)
	case TypeString:
		return strconv.Quote(d.s)
	case TypeColor:
		return d.c.String()
	}
	return "<invalid>"
}

// String renders d with its type, e.g. "u32(300)".
func (d Data) String() string {
	switch d.typ {
	case TypeBool, TypeU8, TypeU32:
		return fmt.Sprintf("%s(%s)", d.typ, d.Literal())
	case TypeString:
		return fmt.Sprintf("string(%s)", d.Literal())
	case TypeColor:
		return d.c.String()
	}
	return "<invalid>"
}
