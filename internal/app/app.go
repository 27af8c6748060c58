package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/router"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screens.Deps
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the given screen.
func newAppModel(deps screens.Deps, root screen.Screen) AppModel {
	return AppModel{
		deps:   deps.WithDefaults(),
		router: router.New(root),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	th := m.deps.Theme
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(th, m.width, m.height)
	}

	active := m.router.Active()
	title, instrumentTitle := active.Title(), ""
	if ip, ok := active.(screen.InstrumentProvider); ok {
		instrumentTitle = ip.InstrumentTitle()
	}
	header := layout.RenderHeader(th, title, instrumentTitle, m.width)
	footer := layout.RenderFooter(th, m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the interactive program with root as the first screen.
func Run(deps screens.Deps, root screen.Screen) error {
	deps = deps.WithDefaults()
	deps.Log.Debug("starting tui", zap.String("screen", root.Title()))

	p := tea.NewProgram(newAppModel(deps, root))
	if _, err := p.Run(); err != nil {
		deps.Log.Error("tui exited", zap.Error(err))
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
