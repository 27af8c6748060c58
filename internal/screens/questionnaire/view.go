package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/screenwell/internal/ui/components"
)

func (s *QuestionnaireScreen) View(width, height int) string {
	th := s.deps.Theme
	cw := components.ContentWidth(width)
	wrap := lipgloss.NewStyle().Width(cw - 8)

	if s.confirmLeave {
		body := th.Body.Render("Leave this questionnaire?") + "\n\n" +
			th.Hint.Render(fmt.Sprintf("%d of %d questions answered.", s.sess.AnsweredCount(), s.inst.Len())) + "\n\n" +
			th.Body.Render("S  save a draft and resume later") + "\n" +
			th.Body.Render("Y  discard these answers") + "\n" +
			th.Body.Render("N  keep going")
		return components.Center(components.Card(th, body, cw), width, height)
	}

	q := s.inst.Questions[s.index]
	var b strings.Builder

	label := fmt.Sprintf("Question %d of %d", s.index+1, s.inst.Len())
	b.WriteString(components.NewProgressBar(th, label, s.sess.Progress(), true, cw-8).View())
	b.WriteString("\n\n")

	if s.inst.Preamble != "" {
		b.WriteString(wrap.Inherit(th.Hint).Render(s.inst.Preamble) + "\n\n")
	}
	b.WriteString(wrap.Inherit(th.Body).Bold(true).Render(fmt.Sprintf("%d. %s", s.index+1, q.Text)) + "\n\n")
	b.WriteString(s.options.View())

	if s.finishing {
		b.WriteString("\n" + th.Hint.Render("Scoring..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + wrap.Inherit(th.Alert).Render(s.errMsg))
	}
	if s.warn != "" {
		b.WriteString("\n" + wrap.Inherit(th.Notice).Render(s.warn))
	}

	return components.Center(components.Card(th, b.String(), cw), width, height)
}
