package driver

import (
	"fmt"

	"github.com/podhmo/bigrpn"
)

// LimitExceededName is printed in place of an evaluator error kind when a
// line is rejected by LimitError.
const LimitExceededName = "LimitExceeded"

// LimitError reports a line rejected before evaluation because it exceeds
// a configured bound.
type LimitError struct {
	Limit  string // "tokens" or "digits"
	Max    int
	Actual int
	Token  string // the offending literal, for "digits"
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %d %s, limit is %d", LimitExceededName, e.Actual, e.Limit, e.Max)
}

func checkLimits(line string, opts Options) error {
	if opts.MaxTokens <= 0 && opts.MaxDigits <= 0 {
		return nil
	}
	tokens := bigrpn.Tokenize(line)
	if opts.MaxTokens > 0 && len(tokens) > opts.MaxTokens {
		return &LimitError{Limit: "tokens", Max: opts.MaxTokens, Actual: len(tokens)}
	}
	if opts.MaxDigits > 0 {
		for _, tok := range tokens {
			digits := literalDigits(tok)
			if digits > opts.MaxDigits {
				return &LimitError{Limit: "digits", Max: opts.MaxDigits, Actual: digits, Token: tok}
			}
		}
	}
	return nil
}

// literalDigits returns the number of digits of a [-]digit+ literal, or 0
// for any other token. Malformed tokens are left for the evaluator to reject.
func literalDigits(tok string) int {
	digits := tok
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0
		}
	}
	return len(digits)
}
