package digest

import (
	"testing"
)

func TestContentIDDeterministic(t *testing.T) {
	lines := []string{"1 2 9 5 3"}

	for _, algo := range []string{AlgoSHA256, AlgoBlake3} {
		a, err := ContentID(lines, algo)
		if err != nil {
			t.Fatalf("ContentID(%s) failed: %v", algo, err)
		}
		b, err := ContentID([]string{"1 2 9 5 3"}, algo)
		if err != nil {
			t.Fatalf("ContentID(%s) failed: %v", algo, err)
		}
		if a != b || a == "" {
			t.Errorf("expected stable non-empty id for %s, got %q and %q", algo, a, b)
		}
	}

	sha, _ := ContentID(lines, AlgoSHA256)
	blake, _ := ContentID(lines, AlgoBlake3)
	if sha == blake {
		t.Error("different algorithms should give different ids")
	}
}

func TestContentIDUnsupported(t *testing.T) {
	if _, err := ContentID([]string{"x"}, "md5"); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestSameLines(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want bool
	}{
		{"equal", []string{"a", "b", "c"}, []string{"a", "b", "c"}, true},
		{"both empty", nil, []string{}, true},
		{"one empty", nil, []string{"a"}, false},
		{"reordered", []string{"a", "b"}, []string{"b", "a"}, false},
		{"extra line", []string{"a"}, []string{"a", "a"}, false},
		{"whitespace", []string{"a "}, []string{"a"}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := SameLines(c.a, c.b)
			if err != nil {
				t.Fatalf("SameLines failed: %v", err)
			}
			if got != c.want {
				t.Errorf("SameLines(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestVerifyLine(t *testing.T) {
	tree, err := BuildTree([]string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	ok, err := VerifyLine(tree, 1, "y")
	if err != nil || !ok {
		t.Fatalf("expected line 1 to verify, got %v, %v", ok, err)
	}

	ok, err = VerifyLine(tree, 0, "y")
	if err != nil {
		t.Fatalf("VerifyLine failed: %v", err)
	}
	if ok {
		t.Error("line at wrong index should not verify")
	}

	if _, err := VerifyLine(nil, 0, "x"); err == nil {
		t.Error("expected error for nil tree")
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if _, err := BuildTree(nil); err == nil {
		t.Fatal("expected error for empty line list")
	}
	root, err := Root(nil)
	if err != nil || root != nil {
		t.Fatalf("Root(nil) = %x, %v; want nil, nil", root, err)
	}
}
