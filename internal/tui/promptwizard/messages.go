package promptwizard

import "github.com/mark3labs/promptsmith/internal/wizard"

// AdvanceRequestedMsg asks the wizard to move the session forward.
type AdvanceRequestedMsg struct{}

// AdvanceDoneMsg carries the outcome of a Controller.Advance call.
type AdvanceDoneMsg struct {
	Result wizard.AdvanceResult
}

// ResetRequestedMsg asks the wizard to start a new session.
type ResetRequestedMsg struct{}

// SaveRequestedMsg asks the wizard to write the prompt to disk.
type SaveRequestedMsg struct {
	Overwrite bool
}

// PromptSavedMsg is sent after the prompt file was written.
type PromptSavedMsg struct {
	Path string
}

// SaveErrorMsg is sent when writing the prompt failed.
type SaveErrorMsg struct {
	Path string
	Err  error
}

// PromptEditedMsg is sent when the external editor returns with new content.
type PromptEditedMsg struct {
	Content string
}

// SummaryMsg carries the journal summary line for the result screen.
type SummaryMsg struct {
	Text string
}

// TabExitForwardMsg is sent when tab leaves the last element of a step.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when shift+tab leaves the first element of a step.
type TabExitBackwardMsg struct{}
