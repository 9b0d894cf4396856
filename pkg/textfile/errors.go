package textfile

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound marks a path that is missing, is not a regular file,
	// is not readable, or whose parent directory does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrIOFailure marks an open, read, write, flush, sync or close that failed
	// after the path preconditions held.
	ErrIOFailure = errors.New("io failure")
)

// PathError records the failed operation, the path and the error kind.
// It unwraps to both Kind and Err, so errors.Is works against either
// ErrFileNotFound/ErrIOFailure or the underlying cause (e.g. fs.ErrNotExist).
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Kind: ErrFileNotFound, Err: err}
}

func ioFailure(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Kind: ErrIOFailure, Err: err}
}

// IsNotFound reports whether err is a FileNotFound-kind error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsIOFailure reports whether err is an IOFailure-kind error.
func IsIOFailure(err error) bool {
	return errors.Is(err, ErrIOFailure)
}
