package textfile

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/internal/platform"
)

// Writer writes text to a single file, truncating what was there before.
// Close flushes, syncs and releases the file; it must be called on every path.
type Writer struct {
	path   string
	f      *os.File
	enc    io.WriteCloser
	bw     *bufio.Writer
	n      int
	start  time.Time
	closed bool
}

// Create opens path for writing. The parent directory must already exist;
// call EnsureParent first to check or create it.
func Create(path string) (*Writer, error) {
	start := time.Now()
	path = platform.Normalize(path)

	if err := EnsureParent(path, false); err != nil {
		metrics.ObserveFileOp(start, "write", err)
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			err = notFound("create", path, err)
		} else {
			err = ioFailure("create", path, err)
		}
		metrics.ObserveFileOp(start, "write", err)
		return nil, err
	}

	enc, err := newEncoder(f, CodecFor(path))
	if err != nil {
		f.Close()
		err = ioFailure("encode", path, err)
		metrics.ObserveFileOp(start, "write", err)
		return nil, err
	}

	return &Writer{
		path:  path,
		f:     f,
		enc:   enc,
		bw:    bufio.NewWriter(enc),
		start: start,
	}, nil
}

// Path returns the normalized path being written.
func (w *Writer) Path() string {
	return w.path
}

// WriteString writes s as is, without adding a terminator.
func (w *Writer) WriteString(s string) (int, error) {
	if w.closed {
		return 0, ioFailure("write", w.path, os.ErrClosed)
	}
	n, err := w.bw.WriteString(s)
	w.n += n
	if err != nil {
		return n, ioFailure("write", w.path, err)
	}
	return n, nil
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	_, err := w.WriteString("\n")
	return err
}

// Close flushes buffered text, finishes the encoding, syncs the file to
// storage and closes it. The file is closed even when an earlier step fails.
func (w *Writer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		metrics.ObserveFileOp(w.start, "write", err)
		if err == nil {
			metrics.AddBytesWritten(w.n)
		}
	}()

	steps := []struct {
		op string
		fn func() error
	}{
		{"flush", w.bw.Flush},
		{"encode", w.enc.Close},
		{"sync", w.f.Sync},
	}
	for _, s := range steps {
		if stepErr := s.fn(); stepErr != nil && err == nil {
			err = ioFailure(s.op, w.path, stepErr)
		}
	}

	if closeErr := w.f.Close(); closeErr != nil && err == nil {
		err = ioFailure("close", w.path, closeErr)
	}
	return err
}

// WriteString overwrites the file at path with value. No terminator is added.
// The data is synced to storage before WriteString returns.
func WriteString(path, value string) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := w.WriteString(value); err != nil {
		return err
	}

	logger.Debugw("wrote value", "path", w.Path(), "bytes", len(value))
	return nil
}
