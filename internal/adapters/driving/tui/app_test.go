package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexguard/internal/core/domain"
)

func newTestApp(t *testing.T, analysis *MockAnalysisService) *App {
	t.Helper()
	if analysis == nil {
		analysis = &MockAnalysisService{}
	}
	app, err := NewApp(&Ports{Analysis: analysis, Ingest: &MockIngestService{CaseCount: 9}})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// drain runs a command and feeds every resulting message back into the app,
// skipping spinner ticks so the loop terminates.
func drain(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, c := range m {
			drain(app, c)
		}
	case nil:
	case spinner.TickMsg:
	default:
		_, next := app.Update(m)
		if _, ok := m.(messages.AnalysisCompleted); ok {
			drain(app, next)
		}
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &MockAnalysisService{}})

	require.NoError(t, err)
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Ingest: &MockIngestService{}})

	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingAnalysisService)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, nil)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	assert.NotNil(t, newTestApp(t, nil).Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &MockAnalysisService{}})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Your idea")
}

func TestApp_SubmitRunsAnalysis(t *testing.T) {
	analysis := &MockAnalysisService{Response: domain.AnalysisResponse{
		Analysis:   "Low risk.",
		CitedCases: []string{"R.G. Anand v. Delux Films"},
		Grounded:   true,
		Provider:   "ollama",
	}}
	app := newTestApp(t, analysis)
	typeText(app, "a film about rival chefs")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, messages.ViewAnalysing, app.CurrentView())
	assert.Equal(t, status.StateAnalysing, app.bar.State())

	drain(app, cmd)

	assert.Equal(t, []string{"a film about rival chefs"}, analysis.Calls)
	assert.Equal(t, messages.ViewReport, app.CurrentView())
	assert.Equal(t, "Low risk.", app.Response().Analysis)
	assert.Equal(t, status.StateReport, app.bar.State())
	assert.Equal(t, 9, app.bar.CaseCount())
	assert.Contains(t, app.View(), "R.G. Anand v. Delux Films")
}

func TestApp_EmptyIdeaIsRejected(t *testing.T) {
	analysis := &MockAnalysisService{}
	app := newTestApp(t, analysis)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.Empty(t, analysis.Calls)
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Equal(t, status.StateError, app.bar.State())
}

func TestApp_DegradedReport(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.AnalysisCompleted{Response: domain.AnalysisResponse{
		Analysis:   "All providers failed.",
		CitedCases: []string{domain.PlaceholderCitation},
		Degraded:   true,
	}})

	assert.Equal(t, messages.ViewReport, app.CurrentView())
	assert.Equal(t, status.StateDegraded, app.bar.State())
}

func TestApp_AnalysisErrorReturnsToEditor(t *testing.T) {
	app := newTestApp(t, nil)
	app.currentView = messages.ViewAnalysing

	app.Update(messages.AnalysisCompleted{Err: errors.New("store offline")})

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.EqualError(t, app.Err(), "store offline")
	assert.Equal(t, "store offline", app.bar.Message())
}

func TestApp_ReportNavigation(t *testing.T) {
	t.Run("esc keeps the idea", func(t *testing.T) {
		app := newTestApp(t, nil)
		typeText(app, "heist")
		app.Update(messages.AnalysisCompleted{Response: domain.AnalysisResponse{Analysis: "x"}})

		app.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.Equal(t, messages.ViewEditor, app.CurrentView())
		assert.Equal(t, "heist", app.input.Value())
	})

	t.Run("n clears the idea", func(t *testing.T) {
		app := newTestApp(t, nil)
		typeText(app, "heist")
		app.Update(messages.AnalysisCompleted{Response: domain.AnalysisResponse{Analysis: "x"}})

		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

		assert.Equal(t, messages.ViewEditor, app.CurrentView())
		assert.Empty(t, app.input.Value())
	})
}

func TestApp_KeysIgnoredWhileAnalysing(t *testing.T) {
	app := newTestApp(t, nil)
	app.currentView = messages.ViewAnalysing

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Nil(t, cmd)
	assert.Empty(t, app.input.Value())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Keys")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_CaseCountErrorIsIgnored(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.CaseCountLoaded{Count: 3, Err: errors.New("x")})

	assert.Equal(t, -1, app.bar.CaseCount())
}
