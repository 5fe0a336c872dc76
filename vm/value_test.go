package vm

import "testing"

// ---------------------------------------------------------------------------
// Type tests
// ---------------------------------------------------------------------------

func TestDataTypeIsTotal(t *testing.T) {
	tests := []struct {
		d    Data
		want Type
	}{
		{Bool(true), TypeBool},
		{U8(7), TypeU8},
		{U32(70000), TypeU32},
		{String("hi"), TypeString},
		{ColorData(RGB(1, 2, 3)), TypeColor},
	}

	for _, tt := range tests {
		if got := tt.d.Type(); got != tt.want {
			t.Errorf("%s.Type() = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestTypeAccepts(t *testing.T) {
	tests := []struct {
		want, got Type
		ok        bool
	}{
		{TypeAny, TypeBool, true},
		{TypeAny, TypeColor, true},
		{TypeU32, TypeU8, true},
		{TypeU8, TypeU32, true},
		{TypeU32, TypeBool, false},
		{TypeColor, TypeU8, false},
		{TypeBool, TypeBool, true},
		{TypeString, TypeColor, false},
	}

	for _, tt := range tests {
		if got := tt.want.Accepts(tt.got); got != tt.ok {
			t.Errorf("%s.Accepts(%s) = %v, want %v", tt.want, tt.got, got, tt.ok)
		}
	}
}

func TestTypeString(t *testing.T) {
	if TypeU8.String() != "u8" {
		t.Errorf("TypeU8.String() = %q, want u8", TypeU8.String())
	}
	if Type(99).String() != "Type(99)" {
		t.Errorf("Type(99).String() = %q", Type(99).String())
	}
}

// ---------------------------------------------------------------------------
// Data tests
// ---------------------------------------------------------------------------

func TestDataEquality(t *testing.T) {
	if U8(3) != U8(3) {
		t.Error("U8(3) should equal U8(3)")
	}
	if U8(3) == U32(3) {
		t.Error("U8(3) and U32(3) carry different tags")
	}
	if ColorData(RGB(1, 2, 3)) != ColorData(RGBA(1, 2, 3, 255)) {
		t.Error("RGB should default alpha to 255")
	}
	if ColorData(RGBA(1, 2, 3, 4)) == ColorData(RGBA(1, 2, 3, 5)) {
		t.Error("colors differing in alpha should not be equal")
	}
	if String("a") == String("b") {
		t.Error("different strings should not be equal")
	}
}

func TestDataAccessors(t *testing.T) {
	if v, ok := U32(9).AsU32(); !ok || v != 9 {
		t.Errorf("U32(9).AsU32() = %d, %v", v, ok)
	}
	if _, ok := U8(9).AsU32(); ok {
		t.Error("U8.AsU32 should report false")
	}
	if v, ok := String("x").AsString(); !ok || v != "x" {
		t.Errorf("String.AsString() = %q, %v", v, ok)
	}
	if c, ok := ColorData(White).AsColor(); !ok || c != White {
		t.Errorf("ColorData.AsColor() = %v, %v", c, ok)
	}
}

func TestDataString(t *testing.T) {
	tests := []struct {
		d    Data
		want string
	}{
		{Bool(false), "bool(false)"},
		{U8(12), "u8(12)"},
		{U32(300), "u32(300)"},
		{String("hi"), `string("hi")`},
		{ColorData(RGBA(1, 2, 3, 4)), "color(1,2,3,4)"},
		{Data{}, "<invalid>"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColorNRGBA(t *testing.T) {
	c := RGBA(10, 20, 30, 40).NRGBA()
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 40 {
		t.Errorf("NRGBA() = %v", c)
	}
}
