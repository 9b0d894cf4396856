// Package scenario runs the transform-then-compare flow against fixture pairs.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/internal/metrics"
	"github.com/saworbit/linecheck/pkg/compare"
	"github.com/saworbit/linecheck/pkg/transform"
)

// Scenario is one end-to-end check of a transform against an expected file.
type Scenario struct {
	Name         string
	InputPath    string
	OutputPath   string
	ExpectedPath string

	// Literal overrides the runner's rule when set.
	Literal string
}

// Outcome is the result of running a Scenario.
type Outcome struct {
	Scenario  Scenario
	Transform transform.Report
	Result    compare.Result
}

// Pass reports whether the comparison passed.
func (o Outcome) Pass() bool {
	return o.Result.Pass
}

// Runner executes scenarios sequentially: each write completes and is synced
// before the comparison reads it back.
type Runner struct {
	transformOpts []transform.Option
	comparator    *compare.Comparator
	logger        *zap.SugaredLogger
}

// NewRunner returns a Runner. transformOpts apply to every scenario; a
// scenario Literal replaces the rule for that scenario only.
func NewRunner(cmp *compare.Comparator, logger *zap.SugaredLogger, transformOpts ...transform.Option) *Runner {
	if cmp == nil {
		cmp = compare.New()
	}
	return &Runner{
		transformOpts: transformOpts,
		comparator:    cmp,
		logger:        logging.OrNamed(logger, "scenario"),
	}
}

// Run transforms the scenario input and compares the output with the
// expected file. I/O failures are returned as errors. A mismatch is reported
// through the outcome; use Outcome.Result.Err to turn it into an error.
func (r *Runner) Run(s Scenario) (out Outcome, err error) {
	defer func() { metrics.ObserveScenario(out.Pass(), err) }()

	out.Scenario = s

	opts := append([]transform.Option{}, r.transformOpts...)
	if s.Literal != "" {
		opts = append(opts, transform.WithRule(transform.NewLiteralRule(s.Literal)))
	}

	out.Transform, err = transform.New(opts...).Run(s.InputPath, s.OutputPath)
	if err != nil {
		return out, fmt.Errorf("scenario %s: %w", s.label(), err)
	}

	out.Result, err = r.comparator.Compare(s.ExpectedPath, s.OutputPath)
	if err != nil {
		return out, fmt.Errorf("scenario %s: %w", s.label(), err)
	}

	r.logger.Infow("scenario finished", "name", s.label(), "pass", out.Pass())
	return out, nil
}

// RunAll runs scenarios in order. It stops at the first I/O error or when ctx
// is cancelled; mismatches do not stop the run. The returned error joins the
// mismatches when there was no I/O error.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenarios))
	var failures []error

	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		out, err := r.Run(s)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)

		if mismatch := out.Result.Err(); mismatch != nil {
			failures = append(failures, fmt.Errorf("scenario %s: %w", s.label(), mismatch))
		}
	}

	return outcomes, errors.Join(failures...)
}

func (s Scenario) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.InputPath
}
