package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

// OptionChosenMsg is emitted when the respondent picks an option.
type OptionChosenMsg struct {
	QuestionID string
	Value      int
}

// OptionList is a vertical selector over one question's response options.
// Options are listed in definition order and numbered from 1.
type OptionList struct {
	Question instrument.Question
	Cursor   int

	// Current is the recorded answer, if any.
	Current    int
	HasCurrent bool

	theme theme.Theme
}

// NewOptionList creates a selector for q. If the question already has an
// answer the cursor starts on it.
func NewOptionList(th theme.Theme, q instrument.Question, current int, hasCurrent bool) OptionList {
	o := OptionList{
		Question:   q,
		Current:    current,
		HasCurrent: hasCurrent,
		theme:      th,
	}
	if hasCurrent {
		for i, opt := range q.Options {
			if opt.Value == current {
				o.Cursor = i
				break
			}
		}
	}
	return o
}

// Update handles cursor movement, Enter and the number keys 1..n.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Question.Options) == 0 {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Question.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "enter", "space":
		return o, o.choose(o.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(o.Question.Options) {
			o.Cursor = i
			return o, o.choose(i)
		}
	}
	return o, nil
}

func (o OptionList) choose(i int) tea.Cmd {
	msg := OptionChosenMsg{QuestionID: o.Question.ID, Value: o.Question.Options[i].Value}
	return func() tea.Msg { return msg }
}

// View renders the options, marking the cursor and the recorded answer.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Question.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if o.HasCurrent && opt.Value == o.Current {
			mark = "✓"
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt.Label)

		style := o.theme.Unselected
		if i == o.Cursor {
			style = o.theme.Selected
		}
		b.WriteString(style.Render(line))
		if mark != " " {
			b.WriteString(" " + o.theme.Answered.Render(mark))
		}
		b.WriteString("\n")
	}
	return b.String()
}
