package stream

import (
	"fmt"
	"io"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/pkg/textfile"
)

var logger = logging.Named("stream")

// DefaultPrefix is what Prepend adds when no prefix is given.
const DefaultPrefix = "=== "

// Prepend returns a handler that adds prefix in front of every record.
func Prepend(prefix string) Handler {
	return Map("prepend", func(rec string) (string, error) {
		return prefix + rec, nil
	})
}

// Print returns a handler that writes every record, newline terminated, to
// out and passes it on unchanged.
func Print(out io.Writer) Handler {
	return Map("print", func(rec string) (string, error) {
		if _, err := fmt.Fprintln(out, rec); err != nil {
			return "", fmt.Errorf("print record: %w", err)
		}
		return rec, nil
	})
}

// WriteToDisk returns a handler that writes every record plus a newline to
// path. The file is created when iteration starts and closed when it ends,
// whether the upstream finished, failed or the consumer stopped early.
func WriteToDisk(path string) Handler {
	return HandlerFunc(func(in Records) Records {
		return func(yield func(string, error) bool) {
			w, err := textfile.Create(path)
			if err != nil {
				yield("", err)
				return
			}
			closed := false
			defer func() {
				if closed {
					return
				}
				// The consumer is gone or already has an upstream error,
				// so a close failure can only be logged.
				if err := w.Close(); err != nil {
					logger.Warnw("close after interrupted stream failed", "path", w.Path(), "error", err)
				}
			}()

			for rec, err := range in {
				if err != nil {
					yield("", err)
					return
				}
				if err := w.WriteLine(rec); err != nil {
					yield("", err)
					return
				}
				metrics.ObserveStreamRecord("write")
				if !yield(rec, nil) {
					return
				}
			}

			closed = true
			if err := w.Close(); err != nil {
				yield("", err)
			}
		}
	})
}
