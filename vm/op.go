package vm

import "fmt"

// OpCode identifies an operation.
type OpCode uint8

const (
	// Arithmetic
	OpAdd OpCode = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo

	// Comparison
	OpEqual
	OpGreaterThan
	OpGreaterThanEqual
	OpLessThan
	OpLessThanEqual

	// Stack shape
	OpDrop
	OpDup
	OpRot
	OpRotN

	// Literal data
	OpData

	// Environment
	OpFragPos
	OpDimensions

	// Color
	OpMakeColor
	OpSplitColor

	// Sampling
	OpTexturePixel

	opCodeCount
)

// Op is one instruction. Value is only meaningful for OpData.
type Op struct {
	Code  OpCode
	Value Data
}

// DataOp returns an op that pushes d.
func DataOp(d Data) Op {
	return Op{Code: OpData, Value: d}
}

// OpInfo describes an operation for listings, checks and editor help.
type OpInfo struct {
	Name    string // Human-readable name
	Keyword string // Source token; empty for OpData
	Inputs  []Type // Required inputs, bottom of stack first
	Outputs []Type // Produced values, bottom of stack first
	Effect  string // Stack effect in source notation
	Doc     string
}

var opInfoTable = [opCodeCount]OpInfo{
	OpAdd: {"ADD", "+", []Type{TypeU32, TypeU32}, []Type{TypeU32},
		"[a:num b:num] -> [u32]", "Adds two numbers, wrapping on overflow."},
	OpSubtract: {"SUB", "-", []Type{TypeU32, TypeU32}, []Type{TypeU32},
		"[n:num subtractor:num] -> [u32]", "Subtracts the top number from the one below it, wrapping below zero."},
	OpMultiply: {"MUL", "*", []Type{TypeU32, TypeU32}, []Type{TypeU32},
		"[n:num multiplier:num] -> [u32]", "Multiplies two numbers, wrapping on overflow."},
	OpDivide: {"DIV", "/", []Type{TypeU32, TypeU32}, []Type{TypeU32},
		"[n:num divisor:num] -> [u32]", "Integer division. Fails when the divisor is zero."},
	OpModulo: {"MOD", "%", []Type{TypeU32, TypeU32}, []Type{TypeU32},
		"[n:num modulus:num] -> [u32]", "Remainder of n / modulus. Fails when the modulus is zero."},

	OpEqual: {"EQ", "==", []Type{TypeAny, TypeAny}, []Type{TypeBool},
		"[a b] -> [bool]", "True when both values are identical, or numerically equal."},
	OpGreaterThan: {"GT", ">", []Type{TypeU32, TypeU32}, []Type{TypeBool},
		"[b:num a:num] -> [bool]", "b > a."},
	OpGreaterThanEqual: {"GE", ">=", []Type{TypeU32, TypeU32}, []Type{TypeBool},
		"[b:num a:num] -> [bool]", "b >= a."},
	OpLessThan: {"LT", "<", []Type{TypeU32, TypeU32}, []Type{TypeBool},
		"[b:num a:num] -> [bool]", "b < a."},
	OpLessThanEqual: {"LE", "<=", []Type{TypeU32, TypeU32}, []Type{TypeBool},
		"[b:num a:num] -> [bool]", "b <= a."},

	OpDrop: {"DROP", "drop", []Type{TypeAny}, nil,
		"[A] -> []", "Discards the top value."},
	OpDup: {"DUP", "dup", []Type{TypeAny}, []Type{TypeAny, TypeAny},
		"[A] -> [A A]", "Duplicates the top value."},
	OpRot: {"ROT", "rot", []Type{TypeAny, TypeAny}, []Type{TypeAny, TypeAny},
		"[A B] -> [B A]", "Swaps the top two values."},
	OpRotN: {"ROTN", "rotN", []Type{TypeAny, TypeAny, TypeU32}, nil,
		"[A .. B n:u32] -> [B .. A]", "Swaps the top value with the value n below it, keeping the values in between in order."},

	OpData: {"DATA", "", nil, []Type{TypeAny},
		"[] -> [A]", "Pushes a literal."},

	OpFragPos: {"FRAG_POS", "fragPos", nil, []Type{TypeU32, TypeU32},
		"[] -> [x:u32 y:u32]", "Pushes the coordinate of the pixel being computed."},
	OpDimensions: {"DIM", "dim", nil, []Type{TypeU32, TypeU32},
		"[] -> [w:u32 h:u32]", "Pushes the canvas width and height."},

	OpMakeColor: {"MAKE_COLOR", "makeColor", []Type{TypeU8, TypeU8, TypeU8, TypeU8}, []Type{TypeColor},
		"[r:u8 g:u8 b:u8 a:u8] -> [color]", "Builds a color from four channels."},
	OpSplitColor: {"SPLIT_COLOR", "splitColor", []Type{TypeColor}, []Type{TypeU8, TypeU8, TypeU8, TypeU8},
		"[c:color] -> [r:u8 g:u8 b:u8 a:u8]", "Splits a color into its four channels."},

	OpTexturePixel: {"TEXTURE_PIXEL", "texturePixel", []Type{TypeU32, TypeU32, TypeU32}, []Type{TypeColor},
		"[x:u32 y:u32 textureIdx:u32] -> [color]", "Samples a texture, wrapping the index and coordinates."},
}

// Info returns metadata for an opcode.
func (c OpCode) Info() OpInfo {
	if c < opCodeCount {
		return opInfoTable[c]
	}
	return OpInfo{Name: fmt.Sprintf("UNKNOWN(%d)", uint8(c))}
}

// String returns the human-readable name of an opcode.
func (c OpCode) String() string {
	return c.Info().Name
}

// AllOpCodes returns every defined opcode in declaration order.
func AllOpCodes() []OpCode {
	codes := make([]OpCode, 0, opCodeCount)
	for c := OpCode(0); c < opCodeCount; c++ {
		codes = append(codes, c)
	}
	return codes
}

// RequiredInputs returns the types the op consumes, bottom of stack first.
// RotN also consumes n further values that cannot be listed statically;
// execution semantics are authoritative.
func (op Op) RequiredInputs() []Type {
	return op.Code.Info().Inputs
}

// String returns the source token for op.
func (op Op) String() string {
	if op.Code == OpData {
		return op.Value.Literal()
	}
	return op.Code.Info().Keyword
}
