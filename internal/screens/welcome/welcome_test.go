package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	w := New(theme.Default(), func() screen.Screen {
		calls++
		return &stubScreen{}
	})
	return w, &calls
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func anyKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 'a', Text: "a"}
}

func TestReveal(t *testing.T) {
	w, _ := newTestWelcome()

	if v := w.View(80, 24); strings.Contains(v, "not a diagnosis") {
		t.Error("notice should not be visible at start")
	}

	sendTicks(w, 3)
	if v := w.View(80, 24); !strings.Contains(v, "mood and anxiety") {
		t.Error("banner should be visible after 300ms")
	}

	if cmd := sendTicks(w, 6); cmd != nil {
		t.Error("ticking should stop once the notice is shown")
	}
	v := w.View(80, 24)
	if !strings.Contains(v, "not a diagnosis") || !strings.Contains(v, "press any key") {
		t.Errorf("notice should be visible:\n%s", v)
	}
}

func TestFirstKeyRevealsNotice(t *testing.T) {
	w, calls := newTestWelcome()

	_, cmd := w.Update(anyKey())
	if cmd != nil || *calls != 0 {
		t.Fatal("first key should only reveal the notice")
	}
	if !strings.Contains(w.View(80, 24), "not a diagnosis") {
		t.Error("notice should be visible after the first key")
	}

	_, cmd = w.Update(anyKey())
	if cmd == nil {
		t.Fatal("second key should transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Home" {
		t.Errorf("expected home screen, got %q", msg.Screen.Title())
	}
}

func TestTransitionOnce(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 10)

	w.Update(anyKey())
	_, cmd := w.Update(anyKey())
	if cmd != nil {
		t.Error("second transition should be a no-op")
	}
	if *calls != 1 {
		t.Errorf("factory called %d times, want 1", *calls)
	}
}

func TestRenderBannerCompact(t *testing.T) {
	th := theme.Default()
	if !strings.Contains(RenderBanner(th, 30), "S C R E E N W E L L") {
		t.Error("narrow terminals should get the compact banner")
	}
	if strings.Contains(RenderBanner(th, 80), "S C R E E N") {
		t.Error("wide terminals should get the full banner")
	}
}
