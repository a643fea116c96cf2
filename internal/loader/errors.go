package loader

import "fmt"

// SourceNotFoundError indicates that an argument named no readable source:
// a missing file, or a glob pattern with no matches.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %q not found", e.Path)
}

// ReadError indicates a failure opening or reading a source.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
