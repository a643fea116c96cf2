// Package loader turns command-line arguments into expression sources.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StdinName is the argument, and Source name, that stands for standard input.
const StdinName = "-"

// Source is one stream of newline-separated expressions.
type Source struct {
	Name string
	open func() (io.ReadCloser, error)
}

// Open opens the source. Failures are returned as *ReadError.
func (s Source) Open() (io.ReadCloser, error) {
	rc, err := s.open()
	if err != nil {
		return nil, &ReadError{Path: s.Name, Err: err}
	}
	return rc, nil
}

// Resolve maps args to sources in argument order. No arguments means stdin.
// "-" is stdin, arguments containing glob metacharacters are expanded in
// lexical order, anything else must be an existing regular file.
func Resolve(args []string, stdin io.Reader) ([]Source, error) {
	slog.Debug("Resolve: start", "args", args)

	if len(args) == 0 {
		args = []string{StdinName}
	}

	var sources []Source
	for _, arg := range args {
		switch {
		case arg == StdinName:
			sources = append(sources, Source{
				Name: StdinName,
				open: func() (io.ReadCloser, error) { return io.NopCloser(stdin), nil },
			})
		case strings.ContainsAny(arg, "*?["):
			matches, err := filepath.Glob(arg)
			if err != nil {
				slog.Debug("Resolve: end (error)", "arg", arg, "error", err)
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				slog.Debug("Resolve: end (error)", "arg", arg)
				return nil, &SourceNotFoundError{Path: arg}
			}
			sort.Strings(matches)
			for _, m := range matches {
				sources = append(sources, fileSource(m))
			}
		default:
			info, err := os.Stat(arg)
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Resolve: end (error)", "arg", arg)
				return nil, &SourceNotFoundError{Path: arg}
			}
			if err != nil {
				return nil, &ReadError{Path: arg, Err: err}
			}
			if info.IsDir() {
				return nil, &ReadError{Path: arg, Err: fmt.Errorf("is a directory")}
			}
			sources = append(sources, fileSource(arg))
		}
	}

	slog.Debug("Resolve: end", "sources", len(sources))
	return sources, nil
}

func fileSource(path string) Source {
	return Source{
		Name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}
