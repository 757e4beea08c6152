// Package promptfile writes generated system prompts to disk and keeps an
// index of them in the output directory's README.
package promptfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/promptsmith/internal/logger"
)

// ErrExists is returned when the target file exists and overwrite is off.
var ErrExists = errors.New("prompt file already exists")

const (
	promptsMarker = "<!-- PROMPTS -->"
	tableHeader   = "| Prompt | Model | Date |"
	tableSep      = "|--------|-------|------|"

	fallbackName = "system-prompt"
	maxNameRunes = 60
)

// Entry is one prompt to save.
type Entry struct {
	Intent  string // becomes the file name and index title
	Model   string
	Content string
}

// FileName returns the markdown file name derived from the intent.
func FileName(intent string) string {
	name := slug.Make(firstLine(intent))
	if r := []rune(name); len(r) > maxNameRunes {
		name = strings.TrimRight(string(r[:maxNameRunes]), "-")
	}
	if name == "" {
		name = fallbackName
	}
	return name + ".md"
}

// Save writes the prompt into dir and records it in dir/README.md.
// Returns the path of the written file. When the file exists and overwrite
// is false, nothing is written and ErrExists is returned with the path.
func Save(dir string, e Entry, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := FileName(e.Intent)
	path := filepath.Join(dir, filename)

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !overwrite {
		return path, ErrExists
	}

	logger.Debug("Writing prompt to %s", path)
	if err := os.WriteFile(path, []byte(e.Content), 0644); err != nil {
		return "", fmt.Errorf("failed to write prompt file: %w", err)
	}

	// An overwritten prompt is already listed.
	if exists {
		return path, nil
	}

	readmePath := filepath.Join(dir, "README.md")
	if err := updateREADME(readmePath, filename, e.Intent, e.Model); err != nil {
		return "", fmt.Errorf("failed to update README: %w", err)
	}
	return path, nil
}

// updateREADME adds a row for filename to the index, creating the README
// when needed. Rows go right after the <!-- PROMPTS --> marker so the
// newest prompt is listed first.
func updateREADME(readmePath, filename, intent, model string) error {
	title := truncate(firstLine(intent), 100)
	if title == "" {
		title = "Untitled prompt"
	}
	if model == "" {
		model = "-"
	}

	newRow := fmt.Sprintf("| [%s](%s) | %s | %s |",
		escapeCell(title), filename, escapeCell(model), time.Now().Format("2006-01-02"))

	var content string
	existing, err := os.ReadFile(readmePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read README: %w", err)
		}
		content = createNewREADME(newRow)
	} else {
		content = insertEntry(string(existing), newRow)
	}

	if err := os.WriteFile(readmePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}
	return nil
}

func createNewREADME(newRow string) string {
	return fmt.Sprintf(`# System Prompts

n8n agent system prompts generated with promptsmith.

%s

%s
%s
%s
`, promptsMarker, tableHeader, tableSep, newRow)
}

// insertEntry places newRow at the top of the table following the marker,
// adding the marker and table when they are missing.
func insertEntry(content, newRow string) string {
	lines := strings.Split(content, "\n")

	markerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == promptsMarker {
			markerIdx = i
			break
		}
	}

	if markerIdx == -1 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if strings.TrimSpace(content) != "" {
			content += "\n"
		}
		return content + promptsMarker + "\n\n" + tableHeader + "\n" + tableSep + "\n" + newRow + "\n"
	}

	insertIdx := markerIdx + 1
	for insertIdx < len(lines) && strings.TrimSpace(lines[insertIdx]) == "" {
		insertIdx++
	}

	var block []string
	if insertIdx < len(lines) && strings.TrimSpace(lines[insertIdx]) == tableHeader {
		insertIdx++
		if insertIdx < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[insertIdx]), "|--") {
			insertIdx++
		}
		block = []string{newRow}
	} else {
		insertIdx = markerIdx + 1
		block = []string{"", tableHeader, tableSep, newRow}
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:insertIdx]...)
	out = append(out, block...)
	out = append(out, lines[insertIdx:]...)
	return strings.Join(out, "\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// firstLine returns the first non-empty line from a multi-line string.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
