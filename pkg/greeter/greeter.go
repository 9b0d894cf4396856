// Package greeter writes a fixed greeting to an injected sink.
package greeter

import (
	"fmt"
	"io"

	"github.com/saworbit/linecheck/internal/metrics"
)

// DefaultGreeting is written when no other text is configured.
const DefaultGreeting = "Hello, World!"

// Greeter writes its greeting to out, one line per Hello call.
type Greeter struct {
	out      io.Writer
	greeting string
}

// Option customizes a Greeter.
type Option func(*Greeter)

// WithGreeting replaces the greeting text. Empty text keeps the default.
func WithGreeting(text string) Option {
	return func(g *Greeter) {
		if text != "" {
			g.greeting = text
		}
	}
}

// New returns a Greeter writing to out.
func New(out io.Writer, opts ...Option) *Greeter {
	g := &Greeter{out: out, greeting: DefaultGreeting}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Greeting returns the text Hello writes.
func (g *Greeter) Greeting() string {
	return g.greeting
}

// Hello writes the greeting followed by a newline. The only possible error
// comes from the sink.
func (g *Greeter) Hello() error {
	if g.out == nil {
		return fmt.Errorf("greeter has no output sink")
	}
	if _, err := fmt.Fprintln(g.out, g.greeting); err != nil {
		return fmt.Errorf("write greeting: %w", err)
	}
	metrics.ObserveGreeting()
	return nil
}
