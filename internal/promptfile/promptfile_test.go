package promptfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   string
	}{
		{"simple", "Automate invoice processing", "automate-invoice-processing.md"},
		{"first line only", "Triage support email\nwith Zendesk", "triage-support-email.md"},
		{"empty", "   ", "system-prompt.md"},
		{"symbols only", "!!!", "system-prompt.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.intent); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.intent, got, tt.want)
			}
		})
	}
}

func TestFileName_Truncates(t *testing.T) {
	got := FileName(strings.Repeat("word ", 40))
	name := strings.TrimSuffix(got, ".md")
	assert.LessOrEqual(t, len([]rune(name)), maxNameRunes)
	assert.False(t, strings.HasSuffix(name, "-"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	path, err := Save(dir, Entry{Intent: "Automate invoice processing", Model: "gpt-4o", Content: "SYSTEM: ..."}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "automate-invoice-processing.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SYSTEM: ...", string(data))

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	today := time.Now().Format("2006-01-02")
	assert.Contains(t, string(readme), promptsMarker)
	assert.Contains(t, string(readme), "| [Automate invoice processing](automate-invoice-processing.md) | gpt-4o | "+today+" |")
}

func TestSave_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	e := Entry{Intent: "Bot", Content: "v1"}

	_, err := Save(dir, e, false)
	require.NoError(t, err)

	e.Content = "v2"
	path, err := Save(dir, e, false)
	assert.True(t, errors.Is(err, ErrExists))
	data, _ := os.ReadFile(path)
	assert.Equal(t, "v1", string(data))

	_, err = Save(dir, e, true)
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "v2", string(data))

	readme, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	assert.Equal(t, 1, strings.Count(string(readme), "(bot.md)"), "overwrite must not duplicate the index row")
}

func TestInsertEntry(t *testing.T) {
	row := "| [New](new.md) | m | 2026-01-01 |"

	t.Run("newest first under marker", func(t *testing.T) {
		existing := createNewREADME("| [Old](old.md) | m | 2025-12-31 |")
		got := insertEntry(existing, row)
		assert.Less(t, strings.Index(got, "new.md"), strings.Index(got, "old.md"))
	})

	t.Run("marker without table", func(t *testing.T) {
		got := insertEntry("# Mine\n\n"+promptsMarker+"\n\nfooter\n", row)
		assert.Contains(t, got, promptsMarker+"\n\n"+tableHeader+"\n"+tableSep+"\n"+row)
		assert.Contains(t, got, "footer")
	})

	t.Run("no marker", func(t *testing.T) {
		got := insertEntry("# Mine", row)
		assert.True(t, strings.HasPrefix(got, "# Mine\n\n"+promptsMarker))
		assert.True(t, strings.HasSuffix(got, row+"\n"))
	})
}

func TestUpdateREADME_EscapesPipes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, updateREADME(path, "a.md", "A | B", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `[A \| B](a.md) | - |`)
}
