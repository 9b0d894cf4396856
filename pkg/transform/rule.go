package transform

import "fmt"

// DefaultLiteral is the value the literal rule writes when none is configured.
const DefaultLiteral = "1 2 9 5 3"

// RuleLiteral names the rule that ignores its input.
const RuleLiteral = "literal"

// Rule turns the lines read from an input file into the value written to the
// output file.
type Rule interface {
	// Apply computes the output value from the input lines
	Apply(lines []string) (string, error)

	// Name returns the name of the rule
	Name() string
}

// NewRule creates a rule by name. Only the literal rule exists; the value
// derived from the input is not defined for any other rule.
func NewRule(name, literal string) (Rule, error) {
	switch name {
	case "", RuleLiteral:
		return NewLiteralRule(literal), nil
	default:
		return nil, fmt.Errorf("unsupported transform rule: %s (must be '%s')", name, RuleLiteral)
	}
}

// LiteralRule returns a fixed value regardless of the input lines.
type LiteralRule struct {
	value string
}

// NewLiteralRule returns a rule that always yields value. An empty value
// selects DefaultLiteral.
func NewLiteralRule(value string) *LiteralRule {
	if value == "" {
		value = DefaultLiteral
	}
	return &LiteralRule{value: value}
}

// Apply implements Rule.
func (r *LiteralRule) Apply(_ []string) (string, error) {
	return r.value, nil
}

// Name implements Rule.
func (r *LiteralRule) Name() string {
	return RuleLiteral
}
