package result

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/scoring"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/store"
)

func newRecord(t *testing.T, id string, answers map[string]int) (instrument.Instrument, *store.ResultRecord) {
	t.Helper()
	in, err := instrument.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	s := assessment.New(in)
	for q, v := range answers {
		if err := s.SetAnswer(q, v); err != nil {
			t.Fatal(err)
		}
	}
	res, err := scoring.Score(s, in)
	if err != nil {
		t.Fatal(err)
	}
	return in, &store.ResultRecord{
		ID:          "r1",
		SessionID:   s.ID(),
		Answers:     s.Snapshot(),
		CompletedAt: time.Now(),
		Result:      res,
	}
}

func gad7All(v int) map[string]int {
	m := map[string]int{}
	for i := 1; i <= 7; i++ {
		m["q"+string(rune('0'+i))] = v
	}
	return m
}

func TestResultScreen_FallbackExplanation(t *testing.T) {
	in, rec := newRecord(t, instrument.GAD7, gad7All(3))
	scr := New(screens.Deps{}, in, rec, nil)

	if !scr.Loading() {
		t.Fatal("screen should start loading")
	}
	if v := scr.View(100, 40); !strings.Contains(v, "Preparing explanation") {
		t.Errorf("loading view missing spinner text:\n%s", v)
	}

	msg := scr.requestExplanation()()
	scr.Update(msg)
	if scr.Loading() {
		t.Fatal("screen should stop loading after explanation")
	}

	v := scr.View(100, 40)
	for _, want := range []string{"Score 21 / 21", "severe", "not a diagnosis"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestResultScreen_PartialAndAlerts(t *testing.T) {
	in, rec := newRecord(t, instrument.PHQ9, map[string]int{"q1": 3, "q9": 2})
	scr := New(screens.Deps{}, in, rec, errors.New("disk full"))
	scr.Update(scr.requestExplanation()())

	v := scr.View(120, 60)
	for _, want := range []string{"Partial result: 2 of 9", "Item 9", "could not be saved"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestResultScreen_ExplanationError(t *testing.T) {
	in, rec := newRecord(t, instrument.GAD7, gad7All(0))
	scr := New(screens.Deps{}, in, rec, nil)
	scr.Update(explainedMsg{Err: context.Canceled})

	if scr.Loading() {
		t.Error("error should end loading")
	}
	if v := scr.View(100, 40); !strings.Contains(v, "Explanation unavailable") {
		t.Errorf("view missing error:\n%s", v)
	}
}

func TestResultScreen_PreviousResult(t *testing.T) {
	in, rec := newRecord(t, instrument.GAD7, gad7All(1))
	scr := New(screens.Deps{}, in, rec, nil)

	_, prev := newRecord(t, instrument.GAD7, gad7All(2))
	scr.Update(previousLoadedMsg{Previous: prev})

	if v := scr.View(100, 50); !strings.Contains(v, "(-7)") {
		t.Errorf("view should show the change since last time:\n%s", v)
	}
}

func TestResultScreen_EnterGoesHome(t *testing.T) {
	in, rec := newRecord(t, instrument.GAD7, gad7All(0))
	scr := New(screens.Deps{}, in, rec, nil)

	_, cmd := scr.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Errorf("expected PopToRootMsg, got %T", cmd())
	}
}
