package intro

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/questionnaire"
)

func TestIntro_ShowsInstrument(t *testing.T) {
	in, _ := instrument.Get(instrument.PHQ9)
	s := New(screens.Deps{}, in)

	v := s.View(100, 50)
	for _, want := range []string{in.Title, "9 questions", "not a diagnosis", "Begin"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
	if s.InstrumentTitle() != in.Title {
		t.Errorf("InstrumentTitle = %q", s.InstrumentTitle())
	}
}

func TestIntro_EnterStartsQuestionnaire(t *testing.T) {
	in, _ := instrument.Get(instrument.GAD7)
	s := New(screens.Deps{}, in)
	s.Init()

	for _, r := range "pre-visit" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	q, ok := msg.Screen.(*questionnaire.QuestionnaireScreen)
	if !ok {
		t.Fatalf("expected questionnaire screen, got %T", msg.Screen)
	}
	if q.Session().InstrumentID() != instrument.GAD7 {
		t.Errorf("questionnaire bound to %q", q.Session().InstrumentID())
	}
}

func TestMinutes(t *testing.T) {
	for items, want := range map[int]int{1: 1, 2: 1, 7: 2, 9: 3} {
		if got := minutes(items); got != want {
			t.Errorf("minutes(%d) = %d, want %d", items, got, want)
		}
	}
}
