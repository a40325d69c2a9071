package report

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Diff returns a unified diff between two evaluation documents, rendered as
// YAML. It returns "" when the documents are equal.
func Diff(oldLabel, newLabel string, oldDoc, newDoc Document) (string, error) {
	a, err := Marshal(oldDoc, FormatYAML)
	if err != nil {
		return "", fmt.Errorf("%s: %w", oldLabel, err)
	}

	b, err := Marshal(newDoc, FormatYAML)
	if err != nil {
		return "", fmt.Errorf("%s: %w", newLabel, err)
	}

	return udiff.Unified(oldLabel, newLabel, string(a), string(b)), nil
}

// ColorDiff styles the lines of a unified diff.
func ColorDiff(diff string, s Styles) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = s.Title.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.Hunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.Inserted.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.Deleted.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
