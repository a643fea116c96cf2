// Package bigrpn evaluates reverse-Polish-notation expressions over
// arbitrary-precision integers.
//
// An expression is a whitespace-separated list of base-10 integer literals
// and the binary operators + - * / %. Evaluate is a pure function: it holds
// no state between calls and may be called from many goroutines at once.
package bigrpn

import (
	"math/big"
	"strings"
)

// Operator is one of the five binary operator tokens.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpQuo Operator = "/"
	OpRem Operator = "%"
)

// Operators lists every operator token, in the order they are documented.
var Operators = []Operator{OpAdd, OpSub, OpMul, OpQuo, OpRem}

func isOperator(token string) bool {
	switch Operator(token) {
	case OpAdd, OpSub, OpMul, OpQuo, OpRem:
		return true
	}
	return false
}

// isASCIISpace matches the bytes separating tokens: space, tab, newline,
// form feed and carriage return. Vertical tab is not a separator.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Tokenize splits text into tokens on runs of ASCII whitespace.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, isASCIISpace)
}

// Evaluate evaluates a single RPN expression.
//
// On failure the returned error is an *Error; use errors.Is with the Err*
// sentinels or KindOf to classify it. Evaluation stops at the first error
// and never returns a partial result.
func Evaluate(text string) (*BigNum, error) {
	var stack []*big.Int

	for i, token := range Tokenize(text) {
		if !isOperator(token) {
			v, ok := parseLiteral(token)
			if !ok {
				return nil, &Error{Kind: KindFailedToParseNumber, Token: token, Index: i}
			}
			stack = append(stack, v)
			continue
		}

		if len(stack) < 2 {
			return nil, &Error{Kind: KindNotEnoughOperands, Token: token, Index: i}
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		res, err := apply(Operator(token), a, b)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Token: token, Index: i, Err: err}
		}
		stack = append(stack, res)
	}

	switch len(stack) {
	case 0:
		return nil, &Error{Kind: KindNotEnoughOperands, Index: -1}
	case 1:
		return newBigNum(stack[0]), nil
	default:
		return nil, &Error{Kind: KindNotEnoughOperators, Index: -1}
	}
}

// apply computes a op b into a fresh value; neither operand is modified.
// Division truncates toward zero and the remainder takes the sign of a.
func apply(op Operator, a, b *big.Int) (*big.Int, error) {
	res := new(big.Int)
	switch op {
	case OpAdd:
		return res.Add(a, b), nil
	case OpSub:
		return res.Sub(a, b), nil
	case OpMul:
		return res.Mul(a, b), nil
	case OpQuo:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return res.Quo(a, b), nil
	case OpRem:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return res.Rem(a, b), nil
	default:
		return nil, &Error{Kind: KindUnknown, Token: string(op), Index: -1}
	}
}
