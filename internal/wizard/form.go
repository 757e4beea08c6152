package wizard

import (
	"maps"
	"slices"
)

// FormState is the session record collected across the five steps.
type FormState struct {
	// Step 1
	BuildIntent    string `json:"buildIntent" yaml:"build_intent"`
	WorkflowJSON   string `json:"workflowJson" yaml:"workflow_json"`
	Model          string `json:"model" yaml:"model"`
	CharacterCount string `json:"characterCount" yaml:"character_count"`
	Tools          string `json:"tools" yaml:"tools"`
	ExpectedInput  string `json:"expectedInput" yaml:"expected_input"`
	ExpectedOutput string `json:"expectedOutput" yaml:"expected_output"`

	// Step 2
	AIQuestions []string       `json:"aiQuestions" yaml:"ai_questions"`
	UserAnswers map[int]string `json:"userAnswers" yaml:"user_answers"`

	// Step 3
	SelectedHeaders []PromptHeader `json:"selectedHeaders" yaml:"selected_headers"`

	// Step 4
	AIPlan []string `json:"aiPlan" yaml:"ai_plan"`
}

// NewFormState returns the initial session value.
func NewFormState() FormState {
	return FormState{
		AIQuestions:     []string{},
		UserAnswers:     map[int]string{},
		SelectedHeaders: DefaultHeaders(),
		AIPlan:          []string{},
	}
}

// Clone returns a deep copy so callers can never alias controller state.
func (f FormState) Clone() FormState {
	out := f
	out.AIQuestions = slices.Clone(f.AIQuestions)
	out.UserAnswers = maps.Clone(f.UserAnswers)
	out.SelectedHeaders = slices.Clone(f.SelectedHeaders)
	out.AIPlan = slices.Clone(f.AIPlan)
	return out
}

// Answer returns the answer for question i, or "" when unanswered.
func (f FormState) Answer(i int) string {
	return f.UserAnswers[i]
}

// Header returns the session header with the given id.
func (f FormState) Header(id int) (PromptHeader, bool) {
	for _, h := range f.SelectedHeaders {
		if h.ID == id {
			return h, true
		}
	}
	return PromptHeader{}, false
}

// FormUpdate is a partial update. A nil field leaves the current value
// unchanged; a non-nil field replaces it wholesale.
type FormUpdate struct {
	BuildIntent     *string
	WorkflowJSON    *string
	Model           *string
	CharacterCount  *string
	Tools           *string
	ExpectedInput   *string
	ExpectedOutput  *string
	AIQuestions     *[]string
	UserAnswers     *map[int]string
	SelectedHeaders *[]PromptHeader
	AIPlan          *[]string
}

// Ptr is a helper for building FormUpdate literals.
func Ptr[T any](v T) *T {
	return &v
}

// Apply merges u into f and returns the result. Later writes win field by
// field. The update's slices and maps are copied, never aliased.
func (u FormUpdate) Apply(f FormState) FormState {
	out := f.Clone()
	setString(&out.BuildIntent, u.BuildIntent)
	setString(&out.WorkflowJSON, u.WorkflowJSON)
	setString(&out.Model, u.Model)
	setString(&out.CharacterCount, u.CharacterCount)
	setString(&out.Tools, u.Tools)
	setString(&out.ExpectedInput, u.ExpectedInput)
	setString(&out.ExpectedOutput, u.ExpectedOutput)
	if u.AIQuestions != nil {
		out.AIQuestions = slices.Clone(*u.AIQuestions)
	}
	if u.UserAnswers != nil {
		out.UserAnswers = maps.Clone(*u.UserAnswers)
	}
	if u.SelectedHeaders != nil {
		out.SelectedHeaders = slices.Clone(*u.SelectedHeaders)
	}
	if u.AIPlan != nil {
		out.AIPlan = slices.Clone(*u.AIPlan)
	}
	return out
}

// Empty reports whether the update carries no fields.
func (u FormUpdate) Empty() bool {
	return u == (FormUpdate{})
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
