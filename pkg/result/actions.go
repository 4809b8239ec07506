package result

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// PrimaryText returns the main text field of the view, or "" when the
// response carried none.
func (v View) PrimaryText() string {
	return v.Primary
}

// Copy places the primary text on the system clipboard. A view without a
// primary text field is a no-op, not an error.
func (v View) Copy() error {
	text := strings.TrimSpace(v.Primary)
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("result: copy to clipboard: %w", err)
	}
	return nil
}

// DownloadBlob serializes the displayable content into a single text blob:
// section titles and bodies concatenated in order, followed by metrics and
// tips when present.
func (v View) DownloadBlob() []byte {
	var b strings.Builder
	for _, section := range v.Sections {
		b.WriteString(section.Title)
		b.WriteString("\n\n")
		b.WriteString(section.Body)
		b.WriteString("\n\n")
	}
	for _, metric := range v.Metrics {
		fmt.Fprintf(&b, "%s: %s\n", metric.Name, metric.Value)
	}
	if len(v.Tips) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, tip := range v.Tips {
			b.WriteString("- ")
			b.WriteString(tip)
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

// Filename derives a save name from the view title with whitespace replaced
// by underscores.
func (v View) Filename() string {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = "result"
	}
	return whitespaceRun.ReplaceAllString(title, "_") + ".txt"
}

// Save writes the download blob into dir and returns the written path.
func (v View) Save(dir string) (string, error) {
	path := filepath.Join(dir, v.Filename())
	if err := os.WriteFile(path, v.DownloadBlob(), 0o644); err != nil {
		return "", fmt.Errorf("result: save %q: %w", path, err)
	}
	return path, nil
}
