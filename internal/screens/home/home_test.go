package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/history"
	"github.com/abhisek/screenwell/internal/screens/intro"
	"github.com/abhisek/screenwell/internal/screens/questionnaire"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/store/storetest"
)

func push(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg
}

func TestHome_ListsInstruments(t *testing.T) {
	h := New(screens.Deps{})
	v := h.View(100, 40)
	for _, in := range instrument.All() {
		if !strings.Contains(v, in.Title) {
			t.Errorf("menu missing %s:\n%s", in.Title, v)
		}
	}
}

func TestHome_EnterOpensIntro(t *testing.T) {
	h := New(screens.Deps{})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := push(t, cmd).Screen.(*intro.IntroScreen); !ok {
		t.Error("first item should open the PHQ-9 intro")
	}
}

func TestHome_HistoryNeedsStore(t *testing.T) {
	h := New(screens.Deps{})
	for range instrument.All() {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	// History is disabled, so the cursor lands on Quit.
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}

	st := storetest.Open(t)
	h = New(screens.Deps{Results: st.ResultRepo()})
	for range instrument.All() {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := push(t, cmd).Screen.(*history.HistoryScreen); !ok {
		t.Error("expected history screen")
	}
}

func TestHome_ResumeDraft(t *testing.T) {
	st := storetest.Open(t)
	drafts := st.DraftRepo()
	err := drafts.Save(context.Background(), &store.DraftRecord{
		SessionID:    "draft-1",
		InstrumentID: instrument.GAD7,
		Answers:      map[string]int{"q1": 2, "q2": 0},
		CurrentIndex: 2,
		StartedAt:    time.Now().Add(-10 * time.Minute),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	h := New(screens.Deps{Drafts: drafts})
	h.Update(h.Init()())

	v := h.View(100, 40)
	if !strings.Contains(v, "Resume GAD-7") || !strings.Contains(v, "2 of 7 answered") {
		t.Fatalf("resume item missing:\n%s", v)
	}

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	q, ok := push(t, cmd).Screen.(*questionnaire.QuestionnaireScreen)
	if !ok {
		t.Fatal("expected questionnaire screen")
	}
	if q.Session().ID() != "draft-1" || q.Index() != 2 {
		t.Errorf("resumed session %s at %d", q.Session().ID(), q.Index())
	}
}

func TestHome_SkipsDraftsThatCannotResume(t *testing.T) {
	st := storetest.Open(t)
	drafts := st.DraftRepo()
	ctx := context.Background()
	now := time.Now()
	for _, d := range []*store.DraftRecord{
		{SessionID: "good", InstrumentID: instrument.PHQ9, Answers: map[string]int{"q1": 1}, UpdatedAt: now.Add(-3 * time.Minute)},
		{SessionID: "stale-answers", InstrumentID: instrument.GAD7, Answers: map[string]int{"q1": 7}, UpdatedAt: now.Add(-2 * time.Minute)},
		{SessionID: "gone", InstrumentID: "removed-custom", Answers: map[string]int{"q1": 0}, UpdatedAt: now.Add(-time.Minute)},
	} {
		if err := drafts.Save(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	h := New(screens.Deps{Drafts: drafts})
	h.Update(h.Init()())

	v := h.View(100, 40)
	if !strings.Contains(v, "Resume PHQ-9") {
		t.Fatalf("older resumable draft should be offered:\n%s", v)
	}
	if !strings.Contains(v, "Removed 2 saved draft(s)") {
		t.Errorf("view should say drafts were removed:\n%s", v)
	}

	latest, err := drafts.Latest(ctx, "")
	if err != nil || latest == nil || latest.SessionID != "good" {
		t.Errorf("unrestorable drafts should be deleted, latest = %+v, %v", latest, err)
	}
}
