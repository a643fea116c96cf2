// Package testutil holds assertions shared by the package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/k0kubun/pp/v3"
	"github.com/kr/pretty"
)

func init() {
	pp.Default.SetColoringEnabled(false)
}

// AssertEqualWithDiff asserts that two objects are equal.
//
// If the objects are not equal, this function prints a human-readable diff.
func AssertEqualWithDiff(t testing.TB, expected, actual any) {
	t.Helper()

	diff := pretty.Diff(expected, actual)
	if len(diff) == 0 {
		return
	}

	s := strings.Builder{}
	for i, d := range diff {
		if i == 0 {
			s.WriteString("diff    : ")
		} else {
			s.WriteString("          ")
		}
		s.WriteString(d)
		s.WriteString("\n")
	}

	t.Errorf(
		"Not equal: \n"+
			"expected: %s\n"+
			"actual  : %s\n\n"+
			"%s",
		pp.Sprint(expected),
		pp.Sprint(actual),
		s.String(),
	)
}

// AssertLinesEqual compares two multi-line strings line by line, so a
// mismatch reports which lines differ instead of one long string.
func AssertLinesEqual(t testing.TB, expected, actual string) {
	t.Helper()
	AssertEqualWithDiff(t, splitLines(expected), splitLines(actual))
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
