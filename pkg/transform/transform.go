// Package transform reads an input text file and writes the value produced by
// a Rule to an output file.
package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/pkg/textfile"
)

// Report describes one completed transform.
type Report struct {
	InputPath  string
	OutputPath string
	InputLines int
	Written    string
	Rule       string
}

// Transformer runs a Rule over input files.
type Transformer struct {
	rule          Rule
	createParents bool
	logger        *zap.SugaredLogger
}

// Option customizes a Transformer.
type Option func(*Transformer)

// WithRule sets the rule. The default is the literal rule with DefaultLiteral.
func WithRule(r Rule) Option {
	return func(t *Transformer) {
		if r != nil {
			t.rule = r
		}
	}
}

// WithCreateParents creates a missing output directory instead of failing.
func WithCreateParents(create bool) Option {
	return func(t *Transformer) {
		t.createParents = create
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(t *Transformer) {
		t.logger = l
	}
}

// New returns a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{rule: NewLiteralRule(DefaultLiteral)}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.OrNamed(t.logger, "transform")
	return t
}

// Rule returns the configured rule.
func (t *Transformer) Rule() Rule {
	return t.rule
}

// Run reads every line of inputPath, applies the rule and overwrites
// outputPath with the result. Errors from textfile keep their
// ErrFileNotFound / ErrIOFailure kind.
func (t *Transformer) Run(inputPath, outputPath string) (Report, error) {
	report := Report{InputPath: inputPath, OutputPath: outputPath, Rule: t.rule.Name()}

	lines, err := textfile.ReadLines(inputPath)
	if err != nil {
		return report, fmt.Errorf("read input: %w", err)
	}
	report.InputLines = len(lines)

	value, err := t.rule.Apply(lines)
	if err != nil {
		return report, fmt.Errorf("apply %s rule: %w", t.rule.Name(), err)
	}

	if err := textfile.EnsureParent(outputPath, t.createParents); err != nil {
		return report, fmt.Errorf("prepare output: %w", err)
	}

	if err := textfile.WriteString(outputPath, value); err != nil {
		return report, fmt.Errorf("write output: %w", err)
	}
	report.Written = value

	t.logger.Infow("transformed",
		"input", inputPath,
		"output", outputPath,
		"lines", report.InputLines,
		"rule", report.Rule,
	)
	return report, nil
}
