package promptwizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/promptsmith/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// ButtonID identifies what a button does when activated.
type ButtonID int

const (
	ButtonNone ButtonID = iota
	ButtonReset
	ButtonNext
	ButtonSave
	ButtonEdit
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with keyboard focus.
type ButtonBar struct {
	buttons []Button
	focus   int // -1 when the bar is not focused
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focus:   -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetDisabled enables or disables the button with id.
func (b *ButtonBar) SetDisabled(id ButtonID, disabled bool) {
	for i := range b.buttons {
		if b.buttons[i].ID != id {
			continue
		}
		if disabled {
			b.buttons[i].State = ButtonDisabled
		} else if b.buttons[i].State == ButtonDisabled {
			b.buttons[i].State = ButtonNormal
		}
	}
	if b.focus >= 0 && b.buttons[b.focus].State == ButtonDisabled {
		if !b.FocusNext() && !b.FocusPrev() {
			b.Blur()
		}
	}
}

// Focused reports whether any button has focus.
func (b *ButtonBar) Focused() bool {
	return b.focus >= 0
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() {
	b.focus = -1
	b.FocusNext()
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() {
	b.focus = len(b.buttons)
	if !b.FocusPrev() {
		b.focus = -1
	}
}

// FocusNext moves focus right. Returns false when there is no enabled
// button to the right; focus is left unchanged in that case.
func (b *ButtonBar) FocusNext() bool {
	for i := b.focus + 1; i < len(b.buttons); i++ {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	return false
}

// FocusPrev moves focus left. Returns false when there is no enabled
// button to the left.
func (b *ButtonBar) FocusPrev() bool {
	for i := b.focus - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	return false
}

// Blur removes focus from the bar.
func (b *ButtonBar) Blur() {
	b.focus = -1
}

// FocusedButton returns the id of the focused button.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus < 0 || b.focus >= len(b.buttons) {
		return ButtonNone
	}
	return b.buttons[b.focus].ID
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for i, btn := range b.buttons {
		switch {
		case btn.State == ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case i == b.focus:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}
