package scenario

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
)

// Member names inside each scenario directory of an archive.
const (
	InputFile    = "input.txt"
	ExpectedFile = "expected.txt"
	LiteralFile  = "literal.txt"
	OutputFile   = "output.txt"
)

// LoadArchive reads a txtar archive of scenarios and extracts it under
// workDir. Members are grouped by their first path element:
//
//	-- pass/input.txt --
//	5 3 9 1 2
//	-- pass/expected.txt --
//	1 2 9 5 3
//	-- pass/literal.txt --
//	1 2 9 5 3
//
// input.txt and expected.txt are required; literal.txt is optional. Each
// scenario writes its output to workDir/<name>/output.txt. Scenarios keep
// the order in which their names first appear.
func LoadArchive(archivePath, workDir string) ([]Scenario, error) {
	ar, err := txtar.ParseFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("parse archive %s: %w", archivePath, err)
	}
	return Extract(ar, workDir)
}

// Extract materializes an already parsed archive under workDir.
func Extract(ar *txtar.Archive, workDir string) ([]Scenario, error) {
	var order []string
	byName := map[string]*Scenario{}

	for _, f := range ar.Files {
		name, member, err := splitMember(f.Name)
		if err != nil {
			return nil, err
		}

		s, ok := byName[name]
		if !ok {
			dir := filepath.Join(workDir, name)
			s = &Scenario{
				Name:       name,
				OutputPath: filepath.Join(dir, OutputFile),
			}
			byName[name] = s
			order = append(order, name)
		}

		dest := filepath.Join(workDir, name, member)
		switch member {
		case InputFile:
			s.InputPath = dest
		case ExpectedFile:
			s.ExpectedPath = dest
		case LiteralFile:
			s.Literal = firstLine(f.Data)
			continue
		default:
			return nil, fmt.Errorf("scenario %s: unknown member %s", name, member)
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("create scenario dir %s: %w", name, err)
		}
		if err := os.WriteFile(dest, f.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", dest, err)
		}
	}

	scenarios := make([]Scenario, 0, len(order))
	for _, name := range order {
		s := byName[name]
		if s.InputPath == "" || s.ExpectedPath == "" {
			return nil, fmt.Errorf("scenario %s: needs both %s and %s", name, InputFile, ExpectedFile)
		}
		scenarios = append(scenarios, *s)
	}
	return scenarios, nil
}

func splitMember(name string) (string, string, error) {
	clean := path.Clean(name)
	dir, member := path.Split(clean)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || strings.Contains(dir, "/") || dir == ".." || strings.HasPrefix(clean, "/") {
		return "", "", fmt.Errorf("archive member %q must be <scenario>/<file>", name)
	}
	return dir, member, nil
}

func firstLine(data []byte) string {
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSuffix(line, "\r")
}
