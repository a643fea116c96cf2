package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/tools/txtar"

	"github.com/podhmo/bigrpn"
	"github.com/podhmo/bigrpn/internal/config"
	"github.com/podhmo/bigrpn/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// optionsFromComment reads "key=value" pairs from a txtar comment.
// Lines without '=' are prose.
func optionsFromComment(t *testing.T, comment string) Options {
	t.Helper()
	opts := OptionsFromConfig(config.Default())
	for _, field := range strings.Fields(comment) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		var err error
		switch key {
		case "format":
			opts.Format = value
		case "jobs":
			opts.Jobs, err = strconv.Atoi(value)
		case "max_tokens":
			opts.MaxTokens, err = strconv.Atoi(value)
		case "max_digits":
			opts.MaxDigits, err = strconv.Atoi(value)
		default:
			t.Fatalf("unknown option %q in txtar comment", key)
		}
		require.NoError(t, err, field)
	}
	return opts
}

func TestRun_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			sections := map[string]string{}
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			input, ok := sections["input"]
			require.True(t, ok, "missing input section")
			want, ok := sections["output"]
			require.True(t, ok, "missing output section")

			opts := optionsFromComment(t, string(ar.Comment))

			var out bytes.Buffer
			_, err = Run(context.Background(), strings.NewReader(input), &out, opts)
			require.NoError(t, err)
			testutil.AssertLinesEqual(t, want, out.String())
		})
	}
}

func TestRun_Stats(t *testing.T) {
	var out bytes.Buffer
	stats, err := Run(context.Background(), strings.NewReader("1 1 +\n+\nx\n2\n"), &out, Options{Format: config.FormatText, Jobs: 1})
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 4, Failures: 2}, stats)
}

func TestRun_LineEndings(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty input", input: "", want: ""},
		{name: "no trailing newline", input: "1 2 +", want: "= 3\n"},
		{name: "crlf", input: "1 2 +\r\n3 4 *\r\n", want: "= 3\n= 12\n"},
		{name: "single blank line", input: "\n", want: "NotEnoughOperands\n"},
		{name: "trailing blank line", input: "5\n\n", want: "= 5\nNotEnoughOperands\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Run(context.Background(), strings.NewReader(tc.input), &out, Options{Format: config.FormatText, Jobs: 1})
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&sb, "%d %d *\n", i, i)
		case 1:
			fmt.Fprintf(&sb, "%d 0 /\n", i)
		case 2:
			fmt.Fprintf(&sb, "%d\n", -i)
		default:
			fmt.Fprintf(&sb, "%d 1 2\n", i)
		}
	}
	input := sb.String()

	var seq, par bytes.Buffer
	seqStats, err := Run(context.Background(), strings.NewReader(input), &seq, Options{Format: config.FormatText, Jobs: 1})
	require.NoError(t, err)
	parStats, err := Run(context.Background(), strings.NewReader(input), &par, Options{Format: config.FormatText, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, seqStats, parStats)
	assert.Equal(t, Stats{Lines: 1000, Failures: 500}, parStats)
	testutil.AssertLinesEqual(t, seq.String(), par.String())
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, jobs := range []int{1, 4} {
		var out bytes.Buffer
		_, err := Run(ctx, strings.NewReader("1\n2\n"), &out, Options{Format: config.FormatText, Jobs: jobs})
		assert.ErrorIs(t, err, context.Canceled, "jobs=%d", jobs)
		assert.Empty(t, out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}

func TestRun_WriteError(t *testing.T) {
	_, err := Run(context.Background(), strings.NewReader("1\n"), failingWriter{}, Options{Format: config.FormatText, Jobs: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunExpressions(t *testing.T) {
	var out bytes.Buffer
	exprs := []string{"3 4 +", "1\n2\n+", "7 0 %"}
	stats, err := RunExpressions(context.Background(), exprs, &out, Options{Format: config.FormatText, Jobs: 1})
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 3, Failures: 1}, stats)
	assert.Equal(t, "= 7\n= 3\nUnknown\n", out.String())
}

func TestEvaluate_Limits(t *testing.T) {
	testCases := []struct {
		name      string
		line      string
		opts      Options
		wantLimit string
	}{
		{name: "no limits", line: "123456789 1 +", opts: Options{}},
		{name: "tokens at limit", line: "1 2 +", opts: Options{MaxTokens: 3}},
		{name: "tokens over limit", line: "1 2 + 3", opts: Options{MaxTokens: 3}, wantLimit: "tokens"},
		{name: "digits at limit", line: "-999 1 +", opts: Options{MaxDigits: 3}},
		{name: "digits over limit", line: "1000 1 +", opts: Options{MaxDigits: 3}, wantLimit: "digits"},
		{name: "negative literal over limit", line: "-1000", opts: Options{MaxDigits: 3}, wantLimit: "digits"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.line, tc.opts)
			if tc.wantLimit == "" {
				assert.NoError(t, err)
				return
			}
			var limitErr *LimitError
			require.ErrorAs(t, err, &limitErr)
			assert.Equal(t, tc.wantLimit, limitErr.Limit)
			assert.Equal(t, LimitExceededName, ErrorName(err))
		})
	}
}

func TestEvaluate_DigitLimitIgnoresNonLiterals(t *testing.T) {
	opts := Options{MaxDigits: 3}
	for _, line := range []string{"abcd", "1 12345x +", "--1234"} {
		_, err := Evaluate(line, opts)
		var limitErr *LimitError
		assert.False(t, errors.As(err, &limitErr), line)
		assert.ErrorIs(t, err, bigrpn.ErrFailedToParseNumber, line)
		assert.Equal(t, "FailedToParseNumber", ErrorName(err), line)
	}
}

func TestLiteralDigits(t *testing.T) {
	testCases := []struct {
		tok  string
		want int
	}{
		{"0", 1},
		{"1234", 4},
		{"-1234", 4},
		{"-", 0},
		{"+", 0},
		{"abcd", 0},
		{"12a4", 0},
		{"", 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, literalDigits(tc.tok), tc.tok)
	}
}

func TestPrinter_Color(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, Options{Format: config.FormatText, Color: true})

	v, err := bigrpn.Evaluate("6 7 *")
	require.NoError(t, err)
	require.NoError(t, p.Print(Result{Line: 1, Value: v}))
	_, err = bigrpn.Evaluate("+")
	require.NoError(t, p.Print(Result{Line: 2, Err: err}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "= \x1b["), lines[0])
	assert.Contains(t, lines[0], "42")
	assert.True(t, strings.HasPrefix(lines[1], "\x1b["), lines[1])
	assert.Contains(t, lines[1], "NotEnoughOperands")
}

func TestPrinter_NoColor(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, Options{Format: config.FormatText})
	v, err := bigrpn.Evaluate("6 7 *")
	require.NoError(t, err)
	assert.Equal(t, "= 42", p.FormatValue(v))
	_, err = bigrpn.Evaluate("1 2")
	assert.Equal(t, "NotEnoughOperators", p.FormatError(err))
}

func TestErrorName(t *testing.T) {
	assert.Equal(t, "Unknown", ErrorName(fmt.Errorf("something else")))
	assert.Equal(t, "FailedToParseNumber", ErrorName(fmt.Errorf("wrapped: %w", bigrpn.ErrFailedToParseNumber)))
	assert.Equal(t, LimitExceededName, ErrorName(fmt.Errorf("wrapped: %w", &LimitError{Limit: "tokens"})))
}
