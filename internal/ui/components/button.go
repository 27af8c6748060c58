package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/ui/theme"
)

// Button fires its action when Key is pressed. A disabled button renders
// dimmed and ignores input.
type Button struct {
	Label    string
	Key      string
	Disabled bool

	action func() tea.Cmd
	theme  theme.Theme
}

// NewButton returns an enabled button bound to key, e.g. "enter".
func NewButton(th theme.Theme, label, key string, action func() tea.Cmd) Button {
	return Button{Label: label, Key: key, action: action, theme: th}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || b.Disabled || b.action == nil || kmsg.String() != b.Key {
		return b, nil
	}
	return b, b.action()
}

func (b Button) View() string {
	if b.Disabled {
		return b.theme.ButtonInactive.Render("  " + b.Label)
	}
	label := "▸ " + b.Label
	if b.Key != "" {
		label += " (" + b.Key + ")"
	}
	return b.theme.ButtonActive.Render(label)
}
