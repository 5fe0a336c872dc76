package vm

import (
	"strconv"
	"strings"
)

// keywords maps every reserved token to its op.
var keywords = func() map[string]OpCode {
	m := make(map[string]OpCode, opCodeCount)
	for _, c := range AllOpCodes() {
		if kw := c.Info().Keyword; kw != "" {
			m[kw] = c
		}
	}
	return m
}()

// Keywords returns the reserved tokens in opcode order.
func Keywords() []string {
	var kws []string
	for _, c := range AllOpCodes() {
		if kw := c.Info().Keyword; kw != "" {
			kws = append(kws, kw)
		}
	}
	return kws
}

// LookupKeyword returns the opcode for a reserved token.
func LookupKeyword(token string) (OpCode, bool) {
	c, ok := keywords[token]
	return c, ok
}

// Parse maps a single token to an op. Keywords win, then integers that fit
// in 8 bits, then 32-bit integers, then booleans.
func Parse(token string) (Op, error) {
	if c, ok := keywords[token]; ok {
		return Op{Code: c}, nil
	}

	if n, ok := parseUint(token, 8); ok {
		return DataOp(U8(uint8(n))), nil
	}
	if n, ok := parseUint(token, 32); ok {
		return DataOp(U32(uint32(n))), nil
	}

	switch token {
	case "true":
		return DataOp(Bool(true)), nil
	case "false":
		return DataOp(Bool(false)), nil
	}

	return Op{}, &UnhandledTokenError{Token: token}
}

// parseUint accepts plain decimal digits with an optional single leading '+'.
// Leading zeros are fine; '-' never is.
func parseUint(token string, bits int) (uint64, bool) {
	digits := strings.TrimPrefix(token, "+")
	n, err := strconv.ParseUint(digits, 10, bits)
	if err != nil {
		return 0, false
	}
	return n, true
}
