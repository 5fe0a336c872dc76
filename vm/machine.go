package vm

// Machine evaluates a program for a single fragment. It owns its stack and
// shares the texture list read-only with every other machine of a render.
type Machine struct {
	stack    []Data
	textures []Sampler

	x, y          uint32 // fragment position
	width, height uint32 // canvas dimensions
}

// NewMachine creates a machine for the fragment at (x, y) on a width x height
// canvas. The textures slice is never modified.
func NewMachine(x, y, width, height uint32, textures []Sampler) *Machine {
	return &Machine{
		stack:    make([]Data, 0, 16),
		textures: textures,
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Interpret runs program and returns the color left on top of the stack.
// Tokens are parsed and executed one at a time; the first failure stops
// execution. Values below the final color are ignored.
func (m *Machine) Interpret(program string) (Color, error) {
	for _, tok := range Scan(program) {
		op, err := Parse(tok.Text)
		if err != nil {
			return Color{}, &ExecError{Token: tok, Err: err}
		}
		if err := m.Execute(op); err != nil {
			return Color{}, &ExecError{Token: tok, Err: err}
		}
	}
	return m.popColor()
}

// Execute applies a single op to the stack.
func (m *Machine) Execute(op Op) error {
	switch op.Code {
	// ============ Arithmetic ============
	case OpAdd:
		a, err := m.popU32()
		if err != nil {
			return err
		}
		b, err := m.popU32()
		if err != nil {
			return err
		}
		m.Push(U32(a + b))

	case OpSubtract:
		subtractor, err := m.popU32()
		if err != nil {
			return err
		}
		n, err := m.popU32()
		if err != nil {
			return err
		}
		m.Push(U32(n - subtractor))

	case OpMultiply:
		multiplier, err := m.popU32()
		if err != nil {
			return err
		}
		n, err := m.popU32()
		if err != nil {
			return err
		}
		m.Push(U32(n * multiplier))

	case OpDivide:
		divisor, err := m.popU32()
		if err != nil {
			return err
		}
		n, err := m.popU32()
		if err != nil {
			return err
		}
		if divisor == 0 {
			return ErrDivideByZero
		}
		m.Push(U32(n / divisor))

	case OpModulo:
		modulus, err := m.popU32()
		if err != nil {
			return err
		}
		n, err := m.popU32()
		if err != nil {
			return err
		}
		if modulus == 0 {
			return ErrDivideByZero
		}
		m.Push(U32(n % modulus))

	// ============ Comparison ============
	case OpEqual:
		a, err := m.Pop()
		if err != nil {
			return err
		}
		b, err := m.Pop()
		if err != nil {
			return err
		}
		if a == b {
			m.Push(Bool(true))
			return nil
		}
		an, aok := a.numeric()
		bn, bok := b.numeric()
		m.Push(Bool(aok && bok && an == bn))

	case OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual:
		a, err := m.popU32()
		if err != nil {
			return err
		}
		b, err := m.popU32()
		if err != nil {
			return err
		}
		m.Push(Bool(compare(op.Code, b, a)))

	// ============ Stack shape ============
	case OpDrop:
		if _, err := m.Pop(); err != nil {
			return err
		}

	case OpDup:
		d, err := m.Pop()
		if err != nil {
			return err
		}
		m.Push(d)
		m.Push(d)

	case OpRot:
		a, err := m.Pop()
		if err != nil {
			return err
		}
		b, err := m.Pop()
		if err != nil {
			return err
		}
		m.Push(a)
		m.Push(b)

	case OpRotN:
		return m.rotN()

	// ============ Data & environment ============
	case OpData:
		m.Push(op.Value)

	case OpFragPos:
		m.Push(U32(m.x))
		m.Push(U32(m.y))

	case OpDimensions:
		m.Push(U32(m.width))
		m.Push(U32(m.height))

	// ============ Color ============
	case OpMakeColor:
		var ch [4]uint8 // a, b, g, r in pop order
		for i := range ch {
			v, err := m.popU8()
			if err != nil {
				return err
			}
			ch[i] = v
		}
		m.Push(ColorData(Color{R: ch[3], G: ch[2], B: ch[1], A: ch[0]}))

	case OpSplitColor:
		c, err := m.popColor()
		if err != nil {
			return err
		}
		m.Push(U8(c.R))
		m.Push(U8(c.G))
		m.Push(U8(c.B))
		m.Push(U8(c.A))

	case OpTexturePixel:
		index, err := m.popU32()
		if err != nil {
			return err
		}
		y, err := m.popU32()
		if err != nil {
			return err
		}
		x, err := m.popU32()
		if err != nil {
			return err
		}
		m.Push(ColorData(sample(m.textures, index, x, y)))

	default:
		return &UnhandledTokenError{Token: op.Code.String()}
	}
	return nil
}

// rotN pops a count n, then moves the value n+1 places from the top to the
// top and sinks the old top to the bottom of that window. Values in between
// keep their order.
func (m *Machine) rotN() error {
	n, err := m.popU32()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	top, err := m.Pop()
	if err != nil {
		return err
	}
	buf := make([]Data, 0, min(int(n-1), len(m.stack)))
	for i := uint32(1); i < n; i++ {
		d, err := m.Pop()
		if err != nil {
			return err
		}
		buf = append(buf, d)
	}
	anchor, err := m.Pop()
	if err != nil {
		return err
	}

	m.Push(top)
	for i := len(buf) - 1; i >= 0; i-- {
		m.Push(buf[i])
	}
	m.Push(anchor)
	return nil
}

func compare(code OpCode, lhs, rhs uint32) bool {
	switch code {
	case OpGreaterThan:
		return lhs > rhs
	case OpGreaterThanEqual:
		return lhs >= rhs
	case OpLessThan:
		return lhs < rhs
	default:
		return lhs <= rhs
	}
}

// ============ Stack access ============

// Push places d on top of the stack.
func (m *Machine) Push(d Data) {
	m.stack = append(m.stack, d)
}

// Pop removes and returns the top of the stack.
func (m *Machine) Pop() (Data, error) {
	if len(m.stack) == 0 {
		return Data{}, ErrStackUnderflow
	}
	d := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return d, nil
}

// Depth returns the number of values on the stack.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Stack returns a copy of the stack, bottom first.
func (m *Machine) Stack() []Data {
	return append([]Data(nil), m.stack...)
}

// Reset empties the stack.
func (m *Machine) Reset() {
	m.stack = m.stack[:0]
}

func (m *Machine) popBool() (bool, error) {
	d, err := m.Pop()
	if err != nil {
		return false, err
	}
	if v, ok := d.AsBool(); ok {
		return v, nil
	}
	return false, &InvalidTypeError{Got: d}
}

func (m *Machine) popColor() (Color, error) {
	d, err := m.Pop()
	if err != nil {
		return Color{}, err
	}
	if c, ok := d.AsColor(); ok {
		return c, nil
	}
	return Color{}, &InvalidTypeError{Got: d}
}

// popU32 accepts either integer width.
func (m *Machine) popU32() (uint32, error) {
	d, err := m.Pop()
	if err != nil {
		return 0, err
	}
	if n, ok := d.numeric(); ok {
		return n, nil
	}
	return 0, &InvalidTypeError{Got: d}
}

// popU8 accepts either integer width. A u32 above 255 is reduced modulo 255,
// not 256; existing programs depend on the values this produces.
func (m *Machine) popU8() (uint8, error) {
	d, err := m.Pop()
	if err != nil {
		return 0, err
	}
	if v, ok := d.AsU8(); ok {
		return v, nil
	}
	if n, ok := d.AsU32(); ok {
		if n <= 255 {
			return uint8(n), nil
		}
		return uint8(n % 255), nil
	}
	return 0, &InvalidTypeError{Got: d}
}
