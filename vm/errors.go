package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrStackUnderflow is returned when an op pops from an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrDivideByZero is returned by / and % with a zero right-hand operand.
	ErrDivideByZero = errors.New("divide by zero")
)

// UnhandledTokenError reports a token that is neither a keyword nor a literal.
type UnhandledTokenError struct {
	Token string
}

func (e *UnhandledTokenError) Error() string {
	return fmt.Sprintf("unhandled token %q", e.Token)
}

// InvalidTypeError reports a popped value of the wrong type. The value has
// already been removed from the stack.
type InvalidTypeError struct {
	Got Data
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type: got %s", e.Got)
}

// ExecError locates the token that failed during Interpret.
type ExecError struct {
	Token Token
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%d:%d: %q: %v", e.Token.Line, e.Token.Col, e.Token.Text, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
