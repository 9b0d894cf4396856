package greeter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHelloWritesOncePerCall(t *testing.T) {
	var out bytes.Buffer
	g := New(&out)

	if err := g.Hello(); err != nil {
		t.Fatalf("Hello failed: %v", err)
	}
	if got, want := out.String(), DefaultGreeting+"\n"; got != want {
		t.Fatalf("Hello() wrote %q, expected %q", got, want)
	}

	if err := g.Hello(); err != nil {
		t.Fatalf("second Hello failed: %v", err)
	}
	if n := strings.Count(out.String(), DefaultGreeting); n != 2 {
		t.Fatalf("expected 2 greetings after 2 calls, got %d", n)
	}
}

func TestWithGreeting(t *testing.T) {
	var out bytes.Buffer
	g := New(&out, WithGreeting("Hi linecheck"))
	if err := g.Hello(); err != nil {
		t.Fatalf("Hello failed: %v", err)
	}
	if out.String() != "Hi linecheck\n" {
		t.Fatalf("unexpected greeting %q", out.String())
	}

	if New(&out, WithGreeting("")).Greeting() != DefaultGreeting {
		t.Fatal("empty greeting should keep the default")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestHelloSurfacesSinkError(t *testing.T) {
	if err := New(failingWriter{}).Hello(); err == nil {
		t.Fatal("expected sink error")
	}
	if err := New(nil).Hello(); err == nil {
		t.Fatal("expected error for missing sink")
	}
}
