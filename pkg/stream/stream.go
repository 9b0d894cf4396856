// Package stream pushes the lines of a file through a chain of handlers one
// record at a time, so no stage needs the whole file in memory.
package stream

import (
	"context"
	"errors"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/pkg/textfile"
)

// Records is a pull-through sequence of records. A non-nil error ends the
// sequence; consumers stop at the first one.
type Records = iter.Seq2[string, error]

// Source produces the records at the head of a pipeline.
type Source interface {
	Records() Records
}

// Handler transforms one record sequence into another.
type Handler interface {
	Handle(in Records) Records
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(in Records) Records

// Handle implements Handler.
func (f HandlerFunc) Handle(in Records) Records {
	return f(in)
}

var errStopped = errors.New("stream stopped")

// FileSource yields the lines of a text file with trailing whitespace removed.
type FileSource struct {
	Path string
}

// Records implements Source.
func (s FileSource) Records() Records {
	return func(yield func(string, error) bool) {
		err := textfile.Scan(s.Path, func(line string) error {
			metrics.ObserveStreamRecord("source")
			if !yield(strings.TrimRightFunc(line, isSpace), nil) {
				return errStopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

// SliceSource yields records already held in memory.
type SliceSource []string

// Records implements Source.
func (s SliceSource) Records() Records {
	return func(yield func(string, error) bool) {
		for _, r := range s {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Map returns a handler that applies fn to every record.
func Map(stage string, fn func(string) (string, error)) Handler {
	return HandlerFunc(func(in Records) Records {
		return func(yield func(string, error) bool) {
			for rec, err := range in {
				if err != nil {
					yield("", err)
					return
				}
				out, err := fn(rec)
				if err != nil {
					yield("", err)
					return
				}
				metrics.ObserveStreamRecord(stage)
				if !yield(out, nil) {
					return
				}
			}
		}
	})
}

// Operator chains a source through handlers and drains the result.
type Operator struct {
	source   Source
	handlers []Handler
	logger   *zap.SugaredLogger
}

// NewOperator returns an Operator. Handlers run in the given order.
func NewOperator(source Source, logger *zap.SugaredLogger, handlers ...Handler) *Operator {
	return &Operator{
		source:   source,
		handlers: handlers,
		logger:   logging.OrNamed(logger, "stream"),
	}
}

// Pipeline folds the handlers over the source records without pulling any.
func (o *Operator) Pipeline() Records {
	return o.pipeline(context.Background())
}

func (o *Operator) pipeline(ctx context.Context) Records {
	records := guard(ctx, o.source.Records())
	for _, h := range o.handlers {
		records = h.Handle(records)
	}
	return records
}

// guard ends the sequence with ctx.Err() before handing out a record once
// ctx is done, so no record reaches a handler after cancellation.
func guard(ctx context.Context, in Records) Records {
	return func(yield func(string, error) bool) {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		for rec, err := range in {
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Execute drains the pipeline. It returns the number of records that reached
// the end and the first error from any stage or from ctx. A ctx that is
// already done returns before any handler runs.
func (o *Operator) Execute(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	for rec, err := range o.pipeline(ctx) {
		if err != nil {
			return count, err
		}
		count++
		o.logger.Debugw("execute", "record", rec)
	}
	o.logger.Infow("stream finished", "records", count)
	return count, nil
}
