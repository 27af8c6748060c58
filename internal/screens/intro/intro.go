package intro

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/questionnaire"
	"github.com/abhisek/screenwell/internal/ui/components"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

const noteLimit = 120

// IntroScreen describes an instrument before it starts and takes an
// optional free-text note to store with the result.
type IntroScreen struct {
	deps  screens.Deps
	inst  instrument.Instrument
	note  components.TextInput
	start components.Button
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)
var _ screen.InstrumentProvider = (*IntroScreen)(nil)

// New creates an IntroScreen for inst.
func New(deps screens.Deps, inst instrument.Instrument) *IntroScreen {
	deps = deps.WithDefaults()
	s := &IntroScreen{
		deps: deps,
		inst: inst,
		note: components.NewTextInput(deps.Theme, "Optional note, e.g. \"before appointment\"", noteLimit),
	}
	s.start = components.NewButton(deps.Theme, "Begin", "enter", s.begin)
	return s
}

func (s *IntroScreen) Init() tea.Cmd {
	return s.note.Init()
}

func (s *IntroScreen) Title() string {
	return "Before you start"
}

func (s *IntroScreen) InstrumentTitle() string {
	return s.inst.Title
}

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IntroScreen) begin() tea.Cmd {
	next := questionnaire.New(s.deps, s.inst, s.note.Value())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == s.start.Key {
		var cmd tea.Cmd
		s.start, cmd = s.start.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.note, cmd = s.note.Update(msg)
	return s, cmd
}

func (s *IntroScreen) View(width, height int) string {
	th := s.deps.Theme
	cw := components.ContentWidth(width)
	wrap := lipgloss.NewStyle().Width(cw - 8)

	var b strings.Builder
	b.WriteString(th.Title.Render(s.inst.Title) + "\n\n")
	if s.inst.Description != "" {
		b.WriteString(wrap.Inherit(th.Body).Render(s.inst.Description) + "\n\n")
	}
	b.WriteString(th.Body.Render(fmt.Sprintf("%d questions, about %d minute(s).", s.inst.Len(), minutes(s.inst.Len()))) + "\n")
	if s.inst.Preamble != "" {
		b.WriteString("\n" + wrap.Inherit(th.Hint).Render(s.inst.Preamble) + "\n")
	}
	if s.inst.Source != "" {
		b.WriteString("\n" + wrap.Inherit(th.Hint).Render("Source: "+s.inst.Source) + "\n")
	}
	b.WriteString("\n" + th.Hint.Render("This is a screening questionnaire, not a diagnosis.") + "\n\n")
	b.WriteString(s.note.View() + "\n\n")
	b.WriteString(s.start.View())

	return components.Center(components.Card(th, b.String(), cw), width, height)
}

// minutes estimates completion time at roughly four items a minute.
func minutes(items int) int {
	return max(1, (items+3)/4)
}
