package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/result"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

// pageSize caps how many results are loaded at once.
const pageSize = 50

type historyLoadedMsg struct {
	Filter  string
	Results []store.ResultRecord
	Err     error
}

// HistoryScreen lists saved results, newest first.
type HistoryScreen struct {
	deps     screens.Deps
	filters  []string // "" = all instruments
	filter   int
	results  []store.ResultRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	deps = deps.WithDefaults()
	return &HistoryScreen{
		deps:    deps,
		filters: append([]string{""}, deps.Registry.IDs()...),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo, log := s.deps.Results, s.deps.Log
	filter := s.filters[s.filter]
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{Filter: filter, Err: fmt.Errorf("no database is open")}
		}
		rows, err := repo.List(context.Background(), store.ResultQuery{InstrumentID: filter, Limit: pageSize})
		if err != nil {
			log.Error("list results", zap.String("instrument", filter), zap.Error(err))
		}
		return historyLoadedMsg{Filter: filter, Results: rows, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Filter != s.filters[s.filter] {
			return s, nil // stale
		}
		s.loaded = true
		s.errMsg = ""
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.results = msg.Results
		s.selected = 0
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "tab":
			s.filter = (s.filter + 1) % len(s.filters)
			s.loaded = false
			return s, s.load()
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *HistoryScreen) open() tea.Cmd {
	if s.selected >= len(s.results) {
		return nil
	}
	rec := s.results[s.selected]
	inst, err := s.deps.Registry.Get(rec.Result.InstrumentID)
	if err != nil {
		s.errMsg = fmt.Sprintf("Instrument %q is no longer available.", rec.Result.InstrumentID)
		return nil
	}
	next := result.New(s.deps, inst, &rec, nil)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *HistoryScreen) View(width, height int) string {
	th := s.deps.Theme
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	label := "All instruments"
	if f := s.filters[s.filter]; f != "" {
		label = f
		if inst, err := s.deps.Registry.Get(f); err == nil {
			label = inst.Title
		}
	}
	b.WriteString(center(th.Hint.Render("Showing: "+label)) + "\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(center(th.Alert.Render("Error: " + s.errMsg)))
		return b.String()
	case !s.loaded:
		b.WriteString(center(th.Hint.Render("Loading history...")))
		return b.String()
	case len(s.results) == 0:
		b.WriteString(center(th.Hint.Render("No results yet.")))
		return b.String()
	}

	for i, rec := range s.results {
		prefix := "  "
		style := th.Unselected
		if i == s.selected {
			prefix = "> "
			style = th.Selected
		}
		line := fmt.Sprintf("%s%s  %-8s %s",
			prefix, rec.CompletedAt.Local().Format("Jan 02, 2006 15:04"),
			rec.Result.InstrumentID, rec.Result.Label())
		if rec.Result.HasAlerts() {
			line += "  !"
		}
		b.WriteString(center(style.Render(line)) + "\n")
	}
	return b.String()
}
