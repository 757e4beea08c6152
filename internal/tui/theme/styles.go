package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	StepLabel   lipgloss.Style
	Instruction lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Required    lipgloss.Style
	Checked     lipgloss.Style
	Unchecked   lipgloss.Style
	Cursor      lipgloss.Style
	ErrorTitle  lipgloss.Style
	ErrorText   lipgloss.Style
	Success     lipgloss.Style

	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	Modal           lipgloss.Style
	ErrorModal      lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	CodeBlock lipgloss.Style
}
