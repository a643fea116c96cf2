package bigrpn

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// BigNum is an immutable arbitrary-precision integer produced by Evaluate.
// The decimal form is always available; the int64 view only when the value
// fits in a signed 64-bit integer.
type BigNum struct {
	value    *big.Int
	str      string
	int64Val int64
	hasInt64 bool
}

func newBigNum(v *big.Int) *BigNum {
	n := &BigNum{value: v, str: v.Text(10)}
	if i, err := strconv.ParseInt(n.str, 10, 64); err == nil {
		n.int64Val = i
		n.hasInt64 = true
	}
	return n
}

// ParseBigNum parses a base-10 literal using the same grammar as the
// evaluator: an optional leading '-' followed by one or more ASCII digits.
func ParseBigNum(s string) (*BigNum, error) {
	v, ok := parseLiteral(s)
	if !ok {
		return nil, &Error{Kind: KindFailedToParseNumber, Token: s, Index: -1}
	}
	return newBigNum(v), nil
}

// String returns the canonical base-10 representation.
func (n *BigNum) String() string {
	return n.str
}

// Int64 returns the value as an int64 and true, or 0 and false when the
// value does not fit.
func (n *BigNum) Int64() (int64, bool) {
	return n.int64Val, n.hasInt64
}

// BigInt returns a copy of the underlying value.
func (n *BigNum) BigInt() *big.Int {
	return new(big.Int).Set(n.value)
}

// Cmp compares n and other like big.Int.Cmp.
func (n *BigNum) Cmp(other *BigNum) int {
	return n.value.Cmp(other.value)
}

type bigNumJSON struct {
	Value string `json:"value"`
	Int64 *int64 `json:"int64"`
}

// MarshalJSON encodes the value as {"value": "<decimal>", "int64": n|null}.
// The decimal is a string so no precision is lost in JSON consumers.
func (n *BigNum) MarshalJSON() ([]byte, error) {
	out := bigNumJSON{Value: n.str}
	if n.hasInt64 {
		i := n.int64Val
		out.Int64 = &i
	}
	return json.Marshal(out)
}

// parseLiteral accepts [-]digit+ and nothing else. big.Int.SetString alone
// would also take a leading '+'.
func parseLiteral(s string) (*big.Int, bool) {
	digits := s
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return nil, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, false
		}
	}
	return new(big.Int).SetString(s, 10)
}
