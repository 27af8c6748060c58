package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	noticeAt     = 900 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen shows the banner and the screening notice, then hands over
// to the screen produced by next on any key.
type WelcomeScreen struct {
	theme        theme.Theme
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will replace itself with next().
func New(th theme.Theme, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{theme: th, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.elapsed += tickInterval
		if w.elapsed >= noticeAt {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		// The notice must have been on screen before moving on.
		if w.elapsed >= noticeAt {
			return w, w.transition()
		}
		w.elapsed = noticeAt
		return w, nil
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	th := w.theme
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(th, width), "")
		sections = append(sections, th.Subtitle.Render("Check in on your mood and anxiety."))
	}

	if w.elapsed >= noticeAt {
		sections = append(sections,
			"",
			th.Body.Render("These are screening questionnaires."),
			th.Body.Render("A score is not a diagnosis."),
			"",
			th.Notice.Render("In a crisis, call your local emergency number"),
			th.Notice.Render("or call or text 988 (US)."),
			"",
			th.Hint.Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
