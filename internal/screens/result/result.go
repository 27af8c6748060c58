package result

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/explain"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/components"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

type explainedMsg struct {
	Explanation *explain.Explanation
	Err         error
}

type previousLoadedMsg struct {
	Previous *store.ResultRecord
}

// ResultScreen shows a scored result with its explanation.
type ResultScreen struct {
	deps    screens.Deps
	inst    instrument.Instrument
	rec     *store.ResultRecord
	saveErr error

	spinner     spinner.Model
	explanation *explain.Explanation
	explainErr  string
	previous    *store.ResultRecord
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.InstrumentProvider = (*ResultScreen)(nil)

// New creates a ResultScreen for rec. saveErr, when set, is shown as a
// warning that the result was not stored.
func New(deps screens.Deps, inst instrument.Instrument, rec *store.ResultRecord, saveErr error) *ResultScreen {
	deps = deps.WithDefaults()
	return &ResultScreen{
		deps:    deps,
		inst:    inst,
		rec:     rec,
		saveErr: saveErr,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(deps.Theme.Palette.Secondary)),
		),
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.spinner.Tick, s.requestExplanation()}
	if s.deps.Results != nil && s.rec.Sequence > 0 {
		cmds = append(cmds, s.loadPrevious())
	}
	return tea.Batch(cmds...)
}

func (s *ResultScreen) requestExplanation() tea.Cmd {
	explainer, inst, res := s.deps.Explainer, s.inst, s.rec.Result
	return func() tea.Msg {
		e, err := explainer.Explain(context.Background(), inst, res)
		return explainedMsg{Explanation: e, Err: err}
	}
}

func (s *ResultScreen) loadPrevious() tea.Cmd {
	repo, rec, log := s.deps.Results, s.rec, s.deps.Log
	return func() tea.Msg {
		prev, err := repo.Previous(context.Background(), rec)
		if err != nil {
			log.Warn("load previous result", zap.String("result", rec.ID), zap.Error(err))
			return previousLoadedMsg{}
		}
		return previousLoadedMsg{Previous: prev}
	}
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) InstrumentTitle() string {
	return s.inst.Title
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

// Loading reports whether the explanation is still being prepared.
func (s *ResultScreen) Loading() bool {
	return s.explanation == nil && s.explainErr == ""
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		if msg.Err != nil {
			s.explainErr = msg.Err.Error()
		} else {
			s.explanation = msg.Explanation
		}
		return s, nil

	case previousLoadedMsg:
		s.previous = msg.Previous
		return s, nil

	case spinner.TickMsg:
		if !s.Loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	th := s.deps.Theme
	res := s.rec.Result
	cw := components.ContentWidth(width)

	var b strings.Builder

	bandIdx := s.bandIndex()
	bandStyle := lipgloss.NewStyle().Bold(true).Foreground(th.BandColor(bandIdx, len(s.inst.Bands)))
	b.WriteString(th.Title.Render(s.inst.Title) + "\n\n")
	b.WriteString(th.Body.Render(fmt.Sprintf("Score %d / %d", res.TotalScore, res.MaxScore)) + "   ")
	b.WriteString(bandStyle.Render(res.SeverityBand) + "\n")

	if res.Partial {
		b.WriteString("\n" + th.Notice.Render(fmt.Sprintf("Partial result: %d of %d questions answered", res.Answered, res.Total)) + "\n")
	}
	for _, a := range res.Alerts {
		b.WriteString("\n" + th.Alert.Render("! "+a.Message) + "\n")
	}

	b.WriteString("\n")
	for i, band := range s.inst.Bands {
		marker := "  "
		style := th.Hint.Italic(false)
		if i == bandIdx {
			marker = "▸ "
			style = bandStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%2d-%-2d  %s", marker, band.Low, band.High, band.Label)) + "\n")
	}

	if s.previous != nil {
		delta := res.TotalScore - s.previous.Result.TotalScore
		b.WriteString("\n" + th.Hint.Render(fmt.Sprintf("Last time (%s): %d, %s (%+d)",
			s.previous.CompletedAt.Local().Format("Jan 02"), s.previous.Result.TotalScore,
			s.previous.Result.SeverityBand, delta)) + "\n")
	}

	b.WriteString("\n")
	switch {
	case s.explainErr != "":
		b.WriteString(th.Notice.Render("Explanation unavailable: "+s.explainErr) + "\n")
	case s.explanation == nil:
		b.WriteString(s.spinner.View() + " " + th.Hint.Render("Preparing explanation...") + "\n")
	default:
		b.WriteString(renderExplanation(s, cw))
	}

	if s.saveErr != nil {
		b.WriteString("\n" + th.Notice.Render("This result could not be saved: "+s.saveErr.Error()) + "\n")
	}

	card := components.Card(th, b.String(), cw)
	return components.Center(card, width, height)
}

func renderExplanation(s *ResultScreen, cw int) string {
	th := s.deps.Theme
	e := s.explanation
	wrap := lipgloss.NewStyle().Width(cw - 8)

	var b strings.Builder
	b.WriteString(wrap.Inherit(th.Body).Render(e.Summary) + "\n\n")
	for _, step := range e.NextSteps {
		b.WriteString(wrap.Inherit(th.Body).Render("• "+step) + "\n")
	}
	for _, n := range e.Notices {
		b.WriteString("\n" + wrap.Inherit(th.Notice).Render(n) + "\n")
	}
	b.WriteString("\n" + wrap.Inherit(th.Hint).Render(e.Disclaimer))
	return b.String()
}

func (s *ResultScreen) bandIndex() int {
	for i, b := range s.inst.Bands {
		if b.Label == s.rec.Result.SeverityBand {
			return i
		}
	}
	return -1
}
