package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// App is the console application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input    *input.IdeaInput
	spinner  spinner.Model
	report   viewport.Model
	help     help.Model
	bar      *status.Bar
	response domain.AnalysisResponse
	err      error

	currentView  messages.ViewType
	previousView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a console with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Title

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		input:       input.NewIdeaInput(s),
		spinner:     sp,
		report:      viewport.New(80, 20),
		help:        help.New(),
		bar:         status.NewBar(s, km),
		currentView: messages.ViewEditor,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("lexguard"),
		a.input.Init(),
		a.loadCaseCount(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.currentView != messages.ViewAnalysing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.AnalysisRequested:
		return a, a.startAnalysis(msg.Idea)

	case messages.AnalysisCompleted:
		return a, a.finishAnalysis(msg)

	case messages.CaseCountLoaded:
		if msg.Err == nil {
			a.bar.SetCaseCount(msg.Count)
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewEditor:
		switch {
		case keymap.Matches(keyStr, a.keymap.Submit):
			return a, a.startAnalysis(a.input.Value())
		case keymap.Matches(keyStr, a.keymap.Help):
			a.showHelp()
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case messages.ViewReport:
		switch {
		case keymap.Matches(keyStr, a.keymap.Back):
			return a, a.toEditor(false)
		case keymap.Matches(keyStr, a.keymap.NewIdea):
			return a, a.toEditor(true)
		case keymap.Matches(keyStr, a.keymap.Help):
			a.showHelp()
			return a, nil
		}
		var cmd tea.Cmd
		a.report, cmd = a.report.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = a.previousView
		}
		return a, nil
	}

	// Keys are ignored while the pipeline runs.
	return a, nil
}

func (a *App) startAnalysis(idea string) tea.Cmd {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		a.bar.SetState(status.StateError)
		a.bar.SetMessage("idea cannot be empty")
		return nil
	}

	a.err = nil
	a.currentView = messages.ViewAnalysing
	a.input.Blur()
	a.bar.SetState(status.StateAnalysing)
	a.bar.SetMessage("")

	analysis := a.ports.Analysis
	ctx := a.ctx
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		resp, err := analysis.Analyze(ctx, idea)
		return messages.AnalysisCompleted{Response: resp, Err: err}
	})
}

func (a *App) finishAnalysis(msg messages.AnalysisCompleted) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		a.bar.SetState(status.StateError)
		a.bar.SetMessage(msg.Err.Error())
		a.currentView = messages.ViewEditor
		return a.input.Focus()
	}

	a.response = msg.Response
	a.report.SetContent(a.styles.RenderReport(msg.Response, a.report.Width))
	a.report.GotoTop()
	a.currentView = messages.ViewReport
	if msg.Response.Degraded {
		a.bar.SetState(status.StateDegraded)
	} else {
		a.bar.SetState(status.StateReport)
		a.bar.SetMessage(msg.Response.Provider)
	}
	return a.loadCaseCount()
}

func (a *App) toEditor(clear bool) tea.Cmd {
	if clear {
		a.input.Reset()
	}
	a.bar.Clear()
	a.currentView = messages.ViewEditor
	return a.input.Focus()
}

func (a *App) showHelp() {
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
}

func (a *App) loadCaseCount() tea.Cmd {
	if a.ports.Ingest == nil {
		return nil
	}
	ingest := a.ports.Ingest
	ctx := a.ctx
	return func() tea.Msg {
		n, err := ingest.Count(ctx)
		return messages.CaseCountLoaded{Count: n, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewAnalysing:
		body = fmt.Sprintf("%s %s", a.spinner.View(),
			a.styles.Muted.Render("Retrieving case law and consulting the model..."))
	case messages.ViewReport:
		body = a.report.View()
	case messages.ViewHelp:
		body = a.styles.Title.Render("Keys") + "\n\n" + a.help.FullHelpView(a.keymap.FullHelp())
	default:
		body = a.input.View()
	}

	header := a.styles.Title.Render("lexguard") + a.styles.Muted.Render("  copyright risk console")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", a.bar.View())
}

// Run starts the console and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Response returns the last completed analysis.
func (a *App) Response() domain.AnalysisResponse {
	return a.response
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every component to the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.bar.SetWidth(width)
	a.help.Width = width

	// header, spacers and status bar
	reportHeight := height - 4
	if reportHeight < 5 {
		reportHeight = 5
	}
	a.report.Width = width
	a.report.Height = reportHeight
}
