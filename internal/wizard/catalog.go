package wizard

// OutputParserHeaderID is the catalog entry that carries free-text input.
const OutputParserHeaderID = 23

// PromptHeader is a named section that can be included in the generated
// system prompt.
type PromptHeader struct {
	ID            int    `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	Required      bool   `json:"required" yaml:"required"`
	Selected      bool   `json:"selected" yaml:"selected"`
	RequiresInput bool   `json:"requiresInput,omitempty" yaml:"requires_input,omitempty"`
	InputValue    string `json:"inputValue,omitempty" yaml:"input_value,omitempty"`
}

var catalog = [...]PromptHeader{
	{ID: 1, Label: "Role / Identity", Required: true},
	{ID: 2, Label: "Objective", Required: true},
	{ID: 3, Label: "Scope of Work"},
	{ID: 4, Label: "Context Awareness"},
	{ID: 5, Label: "Decision Logic"},
	{ID: 6, Label: "Data Sources"},
	{ID: 7, Label: "Tool Usage Instructions", Required: true},
	{ID: 8, Label: "Rules & Constraints", Required: true},
	{ID: 9, Label: "Input Understanding", Required: true},
	{ID: 10, Label: "Language Handling"},
	{ID: 11, Label: "Time & Date Handling", Required: true},
	{ID: 12, Label: "Data Validation"},
	{ID: 13, Label: "Response Style & Tone"},
	{ID: 14, Label: "Output Format", Required: true},
	{ID: 15, Label: "Error Handling"},
	{ID: 16, Label: "Fallback Behavior"},
	{ID: 17, Label: "Escalation Rules"},
	{ID: 18, Label: "Performance Optimization"},
	{ID: 19, Label: "Security & Privacy"},
	{ID: 20, Label: "Prohibited Content"},
	{ID: 21, Label: "Confidence Calibration"},
	{ID: 22, Label: "Examples"},
	{ID: OutputParserHeaderID, Label: "Output Structure Parser", RequiresInput: true},
}

// Catalog returns a copy of the 23 header templates in display order.
// Selected and InputValue are zero in the returned templates.
func Catalog() []PromptHeader {
	out := make([]PromptHeader, len(catalog))
	copy(out, catalog[:])
	return out
}

// DefaultHeaders returns the per-session header list: every template with
// Selected set to its Required flag and an empty input value.
func DefaultHeaders() []PromptHeader {
	out := Catalog()
	for i := range out {
		out[i].Selected = out[i].Required
	}
	return out
}

// LookupHeader returns the catalog template with the given id.
func LookupHeader(id int) (PromptHeader, bool) {
	for _, h := range catalog {
		if h.ID == id {
			return h, true
		}
	}
	return PromptHeader{}, false
}

// SelectedOnly filters headers down to those that are selected.
func SelectedOnly(headers []PromptHeader) []PromptHeader {
	var out []PromptHeader
	for _, h := range headers {
		if h.Selected {
			out = append(out, h)
		}
	}
	return out
}
