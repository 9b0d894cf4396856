// Package textfile reads and writes flat text files as ordered sequences of
// lines.
//
// Every call acquires its own file handle right before use and releases it
// before returning, on success and on error. Path preconditions are checked
// up front and reported as ErrFileNotFound; failures once a handle is open are
// reported as ErrIOFailure. Files named *.gz, *.zst or *.xz are decoded on
// read and encoded on write.
package textfile

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/internal/platform"
)

var logger = logging.Named("textfile")

var errNotRegular = errors.New("not a regular file")

// RequireFile checks that path names an existing regular file the current
// user may read.
func RequireFile(path string) error {
	path = platform.Normalize(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return notFound("stat", path, err)
		}
		return ioFailure("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return notFound("stat", path, errNotRegular)
	}
	if err := ensureReadable(path, info); err != nil {
		return notFound("stat", path, err)
	}
	return nil
}

// EnsureParent checks that the directory holding path exists. With create
// set, a missing directory tree is created instead.
func EnsureParent(path string, create bool) error {
	path = platform.Normalize(path)
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return notFound("stat", dir, errors.New("parent is not a directory"))
		}
		return nil
	case errors.Is(err, fs.ErrNotExist) && create:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioFailure("mkdir", dir, err)
		}
		logger.Debugw("created parent directory", "dir", dir)
		return nil
	case errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission):
		return notFound("stat", dir, err)
	default:
		return ioFailure("stat", dir, err)
	}
}

// Scan calls fn for each line of the file at path, in file order, without
// holding the whole file in memory. Lines end at "\n", "\r" or "\r\n" and the
// terminator is stripped. An error returned by fn stops the scan and is
// returned unchanged.
func Scan(path string, fn func(line string) error) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveFileOp(start, "scan", err) }()

	n, err := scan(path, fn)
	metrics.AddLinesRead(n)
	return err
}

// ReadLines reads the whole file at path into an ordered slice of lines.
// A missing path is always an error; it never yields an empty slice.
func ReadLines(path string) (lines []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFileOp(start, "read", err) }()

	lines = []string{}
	n, err := scan(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	metrics.AddLinesRead(n)
	if err != nil {
		return nil, err
	}

	logger.Debugw("read lines", "path", path, "lines", n)
	return lines, nil
}

// FirstLine returns the first line of lines and whether there was one.
func FirstLine(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	return lines[0], true
}

func scan(path string, fn func(string) error) (int, error) {
	if err := RequireFile(path); err != nil {
		return 0, err
	}
	path = platform.Normalize(path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return 0, notFound("open", path, err)
		}
		return 0, ioFailure("open", path, err)
	}
	defer f.Close()

	dec, err := newDecoder(bufio.NewReader(f), CodecFor(path))
	if err != nil {
		return 0, ioFailure("decode", path, err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(scanLines)

	count := 0
	for sc.Scan() {
		count++
		if err := fn(sc.Text()); err != nil {
			return count, err
		}
	}
	if err := sc.Err(); err != nil {
		return count, ioFailure("read", path, err)
	}
	return count, nil
}

// maxLineBytes bounds a single line held in memory.
const maxLineBytes = 64 << 20

// scanLines is a bufio.SplitFunc ending a line at "\n", "\r" or "\r\n".
// A final line without a terminator is still a line.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// "\r": need the next byte to tell a bare CR from CRLF.
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
