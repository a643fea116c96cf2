// Package driver feeds expressions to the evaluator one line at a time and
// prints each result or error, continuing after failures.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/podhmo/bigrpn"
	"github.com/podhmo/bigrpn/internal/config"
)

// linesPerWorker bounds how many lines are buffered per worker when
// evaluating in parallel.
const linesPerWorker = 64

// Options controls evaluation bounds and output.
type Options struct {
	Format    string // config.FormatText or config.FormatJSON
	Color     bool
	Jobs      int // Lines evaluated concurrently; <= 1 evaluates line by line
	MaxTokens int // 0 for no limit
	MaxDigits int // 0 for no limit
}

// OptionsFromConfig copies the driver-relevant fields of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format:    cfg.Format,
		Color:     cfg.Color,
		Jobs:      cfg.Jobs,
		MaxTokens: cfg.MaxTokens,
		MaxDigits: cfg.MaxDigits,
	}
}

// Result is the outcome of evaluating one line.
type Result struct {
	Line  int // 1-based
	Input string
	Value *bigrpn.BigNum
	Err   error
}

// Stats summarizes a run.
type Stats struct {
	Lines    int
	Failures int
}

func (s *Stats) add(r Result) {
	s.Lines++
	if r.Err != nil {
		s.Failures++
	}
}

// Evaluate checks line against the limits in opts and evaluates it.
func Evaluate(line string, opts Options) (*bigrpn.BigNum, error) {
	if err := checkLimits(line, opts); err != nil {
		return nil, err
	}
	return bigrpn.Evaluate(line)
}

// Run reads r until EOF, evaluating each line and writing the result to w.
// Evaluation failures are printed and counted, not returned; the returned
// error is for reading, writing, or cancellation.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) (Stats, error) {
	var stats Stats
	p := NewPrinter(w, opts)
	br := bufio.NewReader(r)

	batchSize := 1
	if opts.Jobs > 1 {
		batchSize = opts.Jobs * linesPerWorker
	}

	lineNo := 0
	for {
		batch, readErr := readLines(br, batchSize)
		if len(batch) > 0 {
			results, err := evaluateBatch(ctx, batch, lineNo+1, opts)
			if err != nil {
				return stats, err
			}
			for _, res := range results {
				stats.add(res)
				if err := p.Print(res); err != nil {
					return stats, fmt.Errorf("writing result for line %d: %w", res.Line, err)
				}
			}
			lineNo += len(batch)
		}
		if errors.Is(readErr, io.EOF) {
			slog.DebugContext(ctx, "input exhausted", "lines", stats.Lines, "failures", stats.Failures)
			return stats, nil
		}
		if readErr != nil {
			return stats, fmt.Errorf("reading line %d: %w", lineNo+1, readErr)
		}
	}
}

// RunExpressions evaluates each element of exprs as one expression, even if
// it contains newlines, and writes the results to w.
func RunExpressions(ctx context.Context, exprs []string, w io.Writer, opts Options) (Stats, error) {
	var stats Stats
	p := NewPrinter(w, opts)

	results, err := evaluateBatch(ctx, exprs, 1, opts)
	if err != nil {
		return stats, err
	}
	for _, res := range results {
		stats.add(res)
		if err := p.Print(res); err != nil {
			return stats, fmt.Errorf("writing result for expression %d: %w", res.Line, err)
		}
	}
	return stats, nil
}

// readLines reads up to n lines, stripping the line terminator. A final
// line without a terminator counts; an empty remainder at EOF does not.
func readLines(br *bufio.Reader, n int) ([]string, error) {
	lines := make([]string, 0, n)
	for len(lines) < n {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}
		if err != nil {
			return lines, err
		}
	}
	return lines, nil
}

// evaluateBatch evaluates lines, numbering them from first. With more than
// one job the lines are evaluated concurrently; results keep input order.
func evaluateBatch(ctx context.Context, lines []string, first int, opts Options) ([]Result, error) {
	results := make([]Result, len(lines))

	if opts.Jobs <= 1 {
		for i, line := range lines {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = evaluateLine(ctx, first+i, line, opts)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluateLine(gctx, first+i, line, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluateLine(ctx context.Context, lineNo int, line string, opts Options) Result {
	v, err := Evaluate(line, opts)
	if err != nil {
		slog.DebugContext(ctx, "evaluation failed", "line", lineNo, "error", err)
	}
	return Result{Line: lineNo, Input: line, Value: v, Err: err}
}
