package textfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestReadLinesStripsTerminators(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", []string{}},
		{"single no terminator", "1 2 9 5 3", []string{"1 2 9 5 3"}},
		{"single with terminator", "1 2 9 5 3\n", []string{"1 2 9 5 3"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"trailing spaces kept", "a  \n b", []string{"a  ", " b"}},
		{"bare cr mid file", "a\rb\n", []string{"a", "b"}},
		{"bare cr at end", "x\r", []string{"x"}},
		{"cr then crlf", "a\r\r\nb", []string{"a", "", "b"}},
		{"mixed terminators", "a\nb\r\nc\rd", []string{"a", "b", "c", "d"}},
	}

	for i, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, "case"+string(rune('a'+i))+".txt")
			writeRaw(t, path, c.content)

			got, err := ReadLines(path)
			if err != nil {
				t.Fatalf("ReadLines failed: %v", err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("ReadLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadLinesIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	writeRaw(t, path, "5 3 9\n1 2\n\nlast")

	first, err := ReadLines(path)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := ReadLines(path)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reads differ (-first +second):\n%s", diff)
	}
}

func TestReadLinesMissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	lines, err := ReadLines(path)
	if err == nil {
		t.Fatalf("expected error, got lines %q", lines)
	}
	if lines != nil {
		t.Errorf("expected nil lines on error, got %q", lines)
	}
	if !IsNotFound(err) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected cause fs.ErrNotExist to be preserved, got %v", err)
	}

	var pe *PathError
	if !errors.As(err, &pe) || pe.Path != path {
		t.Errorf("expected *PathError for %s, got %#v", path, err)
	}
}

func TestReadLinesDirectoryIsNotFound(t *testing.T) {
	_, err := ReadLines(t.TempDir())
	if !IsNotFound(err) {
		t.Fatalf("expected ErrFileNotFound for a directory, got %v", err)
	}
}

func TestReadLinesUnreadableIsNotFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	path := filepath.Join(t.TempDir(), "locked.txt")
	writeRaw(t, path, "secret")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(path, 0o644)

	_, err := ReadLines(path)
	if !IsNotFound(err) {
		t.Fatalf("expected ErrFileNotFound for unreadable file, got %v", err)
	}
}

func TestScanStopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	writeRaw(t, path, "a\nb\nc\n")

	stop := errors.New("stop")
	var seen []string
	err := Scan(path, func(line string) error {
		seen = append(seen, line)
		if line == "b" {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error to be returned unchanged, got %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("scan order mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLinesAcrossBufferBoundary(t *testing.T) {
	// A CR as the last byte of a read needs the next byte to decide CRLF.
	for _, c := range []struct {
		data  string
		atEOF bool
		adv   int
		token string
		more  bool
	}{
		{"a\r", false, 0, "", true},
		{"a\r", true, 2, "a", false},
		{"a\r\n", false, 3, "a", false},
		{"a\rb", false, 2, "a", false},
		{"abc", false, 0, "", true},
		{"abc", true, 3, "abc", false},
	} {
		adv, tok, err := scanLines([]byte(c.data), c.atEOF)
		if err != nil {
			t.Fatalf("scanLines(%q) error: %v", c.data, err)
		}
		if c.more {
			if adv != 0 || tok != nil {
				t.Errorf("scanLines(%q, %v) = %d, %q; want a request for more data", c.data, c.atEOF, adv, tok)
			}
			continue
		}
		if adv != c.adv || string(tok) != c.token {
			t.Errorf("scanLines(%q, %v) = %d, %q; want %d, %q", c.data, c.atEOF, adv, tok, c.adv, c.token)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if _, ok := FirstLine(nil); ok {
		t.Error("expected no first line for empty sequence")
	}
	if got, ok := FirstLine([]string{"x", "y"}); !ok || got != "x" {
		t.Errorf("FirstLine = %q, %v; want \"x\", true", got, ok)
	}
}
