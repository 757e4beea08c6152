package journal

import (
	"encoding/json"
	"fmt"
	"strings"

	inats "github.com/mark3labs/promptsmith/internal/nats"
)

// Summary is the reduced view of a session's journal.
type Summary struct {
	Session     string `json:"session"`
	Advances    int    `json:"advances"`
	Generations int    `json:"generations"` // successful gateway calls
	Failures    int    `json:"failures"`
	Resets      int    `json:"resets"`
	Edits       int    `json:"edits"`
	Saves       int    `json:"saves"`
	LastStep    string `json:"last_step,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	SavedPath   string `json:"saved_path,omitempty"`
}

// Apply folds one event into the summary.
func (s *Summary) Apply(ev Event) {
	switch ev.Type {
	case inats.EventTypeStep:
		var meta StepMeta
		_ = json.Unmarshal(ev.Meta, &meta)
		switch ev.Action {
		case "advanced":
			s.Advances++
			if meta.Op != "" {
				s.Generations++
			}
			s.LastStep = meta.To
		case "failed":
			s.Failures++
			s.LastError = ev.Data
			s.LastStep = meta.From
		case "reset":
			s.Resets++
			s.LastStep = meta.To
		}
	case inats.EventTypeEdit:
		s.Edits++
	case inats.EventTypeSaved:
		s.Saves++
		s.SavedPath = ev.Data
	}
}

// String renders a one-line description for status bars.
func (s *Summary) String() string {
	parts := []string{plural(s.Generations, "generation")}
	if s.Failures > 0 {
		parts = append(parts, plural(s.Failures, "failed attempt"))
	}
	if s.Resets > 0 {
		parts = append(parts, plural(s.Resets, "reset"))
	}
	if s.Edits > 0 {
		parts = append(parts, plural(s.Edits, "edit"))
	}
	if s.Saves > 0 {
		parts = append(parts, plural(s.Saves, "save"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
