// Package compare checks an actual output file against an expected fixture by
// their first lines.
package compare

import (
	"errors"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/pkg/digest"
	"github.com/saworbit/linecheck/pkg/textfile"
)

// ErrAssertionFailure marks a comparison whose first lines differ.
var ErrAssertionFailure = errors.New("assertion failure")

// Result is the outcome of one comparison.
type Result struct {
	ExpectedPath string
	ActualPath   string

	// First lines; empty when the file has no lines.
	Expected string
	Actual   string

	ExpectedLines int
	ActualLines   int

	// Pass is true when both first lines exist and are equal, or when both
	// files are empty.
	Pass bool

	// Content ids of the full files and whether every line matches.
	ExpectedID string
	ActualID   string
	Identical  bool

	// Unified diff of the full files, set only when they are not identical.
	Diff string
}

// Err returns nil for a passing result and a *MismatchError otherwise.
func (r Result) Err() error {
	if r.Pass {
		return nil
	}
	return &MismatchError{
		ExpectedPath: r.ExpectedPath,
		ActualPath:   r.ActualPath,
		Expected:     describe(r.Expected, r.ExpectedLines),
		Actual:       describe(r.Actual, r.ActualLines),
	}
}

func describe(first string, lines int) string {
	if lines == 0 {
		return "<empty file>"
	}
	return fmt.Sprintf("%q", first)
}

// MismatchError reports the two first lines that differed.
type MismatchError struct {
	ExpectedPath string
	ActualPath   string
	Expected     string
	Actual       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("first line mismatch: expected %s (%s), actual %s (%s)",
		e.Expected, e.ExpectedPath, e.Actual, e.ActualPath)
}

func (e *MismatchError) Unwrap() error {
	return ErrAssertionFailure
}

// Comparator compares expected and actual files.
type Comparator struct {
	hashAlgo string
	logger   *zap.SugaredLogger
}

// Option customizes a Comparator.
type Option func(*Comparator)

// WithHashAlgo selects the content id algorithm ("sha256" or "blake3").
func WithHashAlgo(algo string) Option {
	return func(c *Comparator) {
		if algo != "" {
			c.hashAlgo = algo
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Comparator) {
		c.logger = l
	}
}

// New returns a Comparator.
func New(opts ...Option) *Comparator {
	c := &Comparator{hashAlgo: digest.AlgoSHA256}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNamed(c.logger, "compare")
	return c
}

// Compare reads both files and compares their first lines exactly: case and
// whitespace matter. A mismatch is not an error; check Result.Pass or
// Result.Err. An error is returned only when a file cannot be read.
func (c *Comparator) Compare(expectedPath, actualPath string) (res Result, err error) {
	defer func() { metrics.ObserveComparison(res.Pass, err) }()

	res = Result{ExpectedPath: expectedPath, ActualPath: actualPath}

	expected, err := textfile.ReadLines(expectedPath)
	if err != nil {
		return res, fmt.Errorf("read expected: %w", err)
	}
	actual, err := textfile.ReadLines(actualPath)
	if err != nil {
		return res, fmt.Errorf("read actual: %w", err)
	}

	res.ExpectedLines = len(expected)
	res.ActualLines = len(actual)

	e, eok := textfile.FirstLine(expected)
	a, aok := textfile.FirstLine(actual)
	res.Expected, res.Actual = e, a
	res.Pass = eok == aok && e == a

	if res.ExpectedID, err = digest.ContentID(expected, c.hashAlgo); err != nil {
		return res, err
	}
	if res.ActualID, err = digest.ContentID(actual, c.hashAlgo); err != nil {
		return res, err
	}
	if res.Identical, err = digest.SameLines(expected, actual); err != nil {
		return res, err
	}
	if !res.Identical {
		res.Diff, err = unifiedDiff(expectedPath, actualPath, expected, actual)
		if err != nil {
			return res, err
		}
	}

	if res.Pass {
		c.logger.Infow("first lines match", "expected", expectedPath, "actual", actualPath)
	} else {
		c.logger.Warnw("first lines differ",
			"expected", expectedPath,
			"actual", actualPath,
			"want", e,
			"got", a,
		)
	}
	return res, nil
}

func unifiedDiff(fromFile, toFile string, a, b []string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withTerminators(a),
		B:        withTerminators(b),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("build diff: %w", err)
	}
	return diff, nil
}

func withTerminators(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
