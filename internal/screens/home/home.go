package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/assessment"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/history"
	"github.com/abhisek/screenwell/internal/screens/intro"
	"github.com/abhisek/screenwell/internal/screens/questionnaire"
	"github.com/abhisek/screenwell/internal/store"
	"github.com/abhisek/screenwell/internal/ui/components"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

type draftLoadedMsg struct {
	Draft     *store.DraftRecord
	Discarded int
}

// HomeScreen lists the available instruments.
type HomeScreen struct {
	deps   screens.Deps
	menu   components.Menu
	draft  *store.DraftRecord
	errMsg string
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps.WithDefaults()}
	h.buildMenu()
	return h
}

func (h *HomeScreen) buildMenu() {
	var items []components.MenuItem

	if d := h.draft; d != nil {
		if inst, err := h.deps.Registry.Get(d.InstrumentID); err == nil {
			label := fmt.Sprintf("Resume %s", inst.Title)
			detail := fmt.Sprintf("%d of %d answered", len(d.Answers), inst.Len())
			items = append(items, components.MenuItem{Label: label, Detail: detail, Action: func() tea.Cmd {
				next, err := questionnaire.Resume(h.deps, inst, d)
				if err != nil {
					h.deps.Log.Warn("resume draft", zap.String("session", d.SessionID), zap.Error(err))
					h.errMsg = "That draft could not be resumed: " + err.Error()
					return nil
				}
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}})
		}
	}

	for _, inst := range h.deps.Registry.All() {
		items = append(items, components.MenuItem{
			Label:  inst.Title,
			Detail: fmt.Sprintf("%d items", inst.Len()),
			Action: func() tea.Cmd {
				next := intro.New(h.deps, inst)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "History", Disabled: h.deps.Results == nil, Action: func() tea.Cmd {
			next := history.New(h.deps)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	h.menu = components.NewMenu(h.deps.Theme, items)
}

func (h *HomeScreen) Init() tea.Cmd {
	drafts := h.deps.Drafts
	if drafts == nil {
		return nil
	}
	reg, log := h.deps.Registry, h.deps.Log
	return func() tea.Msg {
		return latestDraft(context.Background(), drafts, reg, log)
	}
}

// latestDraft returns the newest draft that can still be resumed. Drafts
// whose instrument is gone or no longer accepts their answers are deleted
// so they stop hiding older ones.
func latestDraft(ctx context.Context, drafts store.DraftRepo, reg *instrument.Registry, log *zap.Logger) draftLoadedMsg {
	var msg draftLoadedMsg
	for range questionnaire.DraftsKept + 1 {
		d, err := drafts.Latest(ctx, "")
		if err != nil {
			log.Warn("load latest draft", zap.Error(err))
			return msg
		}
		if d == nil {
			return msg
		}
		inst, err := reg.Get(d.InstrumentID)
		if err == nil {
			_, err = assessment.Restore(inst, d.SessionID, d.StartedAt, d.Answers)
		}
		if err == nil {
			msg.Draft = d
			return msg
		}

		log.Warn("discarding draft", zap.String("session", d.SessionID), zap.Error(err))
		if err := drafts.Delete(ctx, d.SessionID); err != nil {
			log.Warn("delete draft", zap.String("session", d.SessionID), zap.Error(err))
			return msg
		}
		msg.Discarded++
	}
	return msg
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case draftLoadedMsg:
		h.draft = msg.Draft
		h.notice = ""
		if msg.Discarded > 0 {
			h.notice = fmt.Sprintf("Removed %d saved draft(s) that no longer match their questionnaire.", msg.Discarded)
		}
		h.buildMenu()
		return h, nil
	case tea.KeyMsg:
		h.errMsg = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	th := h.deps.Theme
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(th.Title.Render("Screenwell") + "\n")
	b.WriteString(th.Hint.Render("Short, validated questionnaires about mood and anxiety.") + "\n\n")
	b.WriteString(h.menu.View())
	if h.errMsg != "" {
		b.WriteString("\n" + th.Alert.Render(h.errMsg))
	}
	if h.notice != "" {
		b.WriteString("\n" + th.Hint.Render(h.notice))
	}
	b.WriteString("\n" + th.Hint.Render("Results are screening scores, not a diagnosis."))

	return components.Center(components.Card(th, b.String(), cw), width, height)
}
