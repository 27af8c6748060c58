package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/screenwell/internal/ui/theme"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader_ShowsAppAndInstrument(t *testing.T) {
	h := RenderHeader(theme.Default(), "Questionnaire", "PHQ-9", 100)
	for _, want := range []string{"Screenwell", "Questionnaire", "PHQ-9"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q:\n%s", want, h)
		}
	}
}

func TestRenderFooter_Hints(t *testing.T) {
	f := RenderFooter(theme.Default(), []KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	if !strings.Contains(f, "Esc") || !strings.Contains(f, "Back") {
		t.Errorf("footer missing hint:\n%s", f)
	}
}

func TestRenderFrame_Height(t *testing.T) {
	th := theme.Default()
	header := RenderHeader(th, "t", "", 80)
	footer := RenderFooter(th, nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
}
