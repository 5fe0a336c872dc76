package vm

import (
	"fmt"
	"unicode/utf8"
)

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a problem found by Check.
type Diagnostic struct {
	Line     int // 1-based
	Col      int // 1-based, in runes
	EndCol   int // exclusive
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Severity, d.Message)
}

// Check inspects a program without running it. Every unhandled token is
// reported. Because programs have no branches, the stack's types can be
// followed exactly until the first failure or until a rotN whose count is
// computed from the fragment; problems found on that path are certain to
// happen for every pixel.
func Check(program string) []Diagnostic {
	var (
		diags    []Diagnostic
		stack    checkStack
		tracking = true
		last     Token
	)

	for _, tok := range Scan(program) {
		last = tok
		op, err := Parse(tok.Text)
		if err != nil {
			diags = append(diags, diagnosticAt(tok, SeverityError, err.Error()))
			tracking = false
			continue
		}
		if !tracking {
			continue
		}
		msg, ok := stack.apply(op)
		if msg != "" {
			diags = append(diags, diagnosticAt(tok, SeverityError, msg))
		}
		if msg != "" || !ok {
			tracking = false
		}
	}

	if !tracking {
		return diags
	}
	if last.Text == "" {
		last = Token{Line: 1, Col: 1}
	}
	if len(stack) == 0 {
		diags = append(diags, diagnosticAt(last, SeverityError, "program leaves nothing on the stack; it must end with a color"))
	} else if top := stack[len(stack)-1]; top.typ != TypeColor {
		diags = append(diags, diagnosticAt(last, SeverityError, fmt.Sprintf("program ends with a %s; it must end with a color", top.typ)))
	} else if len(stack) > 1 {
		diags = append(diags, diagnosticAt(last, SeverityWarning, fmt.Sprintf("%d unused values left below the result", len(stack)-1)))
	}
	return diags
}

func diagnosticAt(tok Token, sev Severity, msg string) Diagnostic {
	return Diagnostic{
		Line:     tok.Line,
		Col:      tok.Col,
		EndCol:   tok.Col + utf8.RuneCountInString(tok.Text),
		Severity: sev,
		Message:  msg,
	}
}

// checkValue is what the checker knows about one stack slot. Integer values
// are known when they come from literals or arithmetic on literals.
type checkValue struct {
	typ   Type
	num   uint32
	known bool
}

type checkStack []checkValue

func (s *checkStack) push(v checkValue) { *s = append(*s, v) }

func (s *checkStack) pop(want Type) (checkValue, string) {
	if len(*s) == 0 {
		return checkValue{}, ErrStackUnderflow.Error()
	}
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	if !want.Accepts(v.typ) {
		return v, fmt.Sprintf("invalid type: expected %s, got %s", want, v.typ)
	}
	return v, ""
}

// apply simulates op. It returns an error message for a certain failure, and
// ok=false once the stack can no longer be followed.
func (s *checkStack) apply(op Op) (msg string, ok bool) {
	switch op.Code {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
		rhs, msg := s.pop(TypeU32)
		if msg != "" {
			return msg, false
		}
		lhs, msg := s.pop(TypeU32)
		if msg != "" {
			return msg, false
		}
		out := checkValue{typ: TypeU32}
		if lhs.known && rhs.known {
			if (op.Code == OpDivide || op.Code == OpModulo) && rhs.num == 0 {
				return ErrDivideByZero.Error(), false
			}
			out.num, out.known = fold(op.Code, lhs.num, rhs.num), true
		}
		s.push(out)

	case OpEqual, OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual:
		for _, want := range op.RequiredInputs() {
			if _, msg := s.pop(want); msg != "" {
				return msg, false
			}
		}
		s.push(checkValue{typ: TypeBool})

	case OpDrop:
		if _, msg := s.pop(TypeAny); msg != "" {
			return msg, false
		}

	case OpDup:
		v, msg := s.pop(TypeAny)
		if msg != "" {
			return msg, false
		}
		s.push(v)
		s.push(v)

	case OpRot:
		a, msg := s.pop(TypeAny)
		if msg != "" {
			return msg, false
		}
		b, msg := s.pop(TypeAny)
		if msg != "" {
			return msg, false
		}
		s.push(a)
		s.push(b)

	case OpRotN:
		n, msg := s.pop(TypeU32)
		if msg != "" {
			return msg, false
		}
		if !n.known {
			return "", false
		}
		if n.num == 0 {
			return "", true
		}
		if uint64(len(*s)) < uint64(n.num)+1 {
			return ErrStackUnderflow.Error(), false
		}
		// Swap the top and the anchor; the interior is unchanged.
		st := *s
		top, anchor := len(st)-1, len(st)-1-int(n.num)
		st[top], st[anchor] = st[anchor], st[top]

	case OpData:
		v := checkValue{typ: op.Value.Type()}
		v.num, v.known = op.Value.numeric()
		s.push(v)

	case OpFragPos, OpDimensions:
		s.push(checkValue{typ: TypeU32})
		s.push(checkValue{typ: TypeU32})

	case OpMakeColor, OpTexturePixel:
		for _, want := range op.RequiredInputs() {
			if _, msg := s.pop(want); msg != "" {
				return msg, false
			}
		}
		s.push(checkValue{typ: TypeColor})

	case OpSplitColor:
		if _, msg := s.pop(TypeColor); msg != "" {
			return msg, false
		}
		for i := 0; i < 4; i++ {
			s.push(checkValue{typ: TypeU8})
		}

	default:
		return "", false
	}
	return "", true
}

func fold(code OpCode, lhs, rhs uint32) uint32 {
	switch code {
	case OpAdd:
		return lhs + rhs
	case OpSubtract:
		return lhs - rhs
	case OpMultiply:
		return lhs * rhs
	case OpDivide:
		return lhs / rhs
	default:
		return lhs % rhs
	}
}
