package app

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
	appsync "github.com/nhle/taskpane/internal/sync"
	"github.com/nhle/taskpane/internal/ui"
	analyzeview "github.com/nhle/taskpane/internal/ui/analyze"
	"github.com/nhle/taskpane/internal/ui/command"
	composeview "github.com/nhle/taskpane/internal/ui/compose"
	configview "github.com/nhle/taskpane/internal/ui/config"
	"github.com/nhle/taskpane/tests/testutil"
)

type nopService struct{}

func (nopService) Reword(context.Context, string, string) (string, error) { return "", nil }
func (nopService) Compose(context.Context, string) (string, error)        { return "", nil }
func (nopService) AnalyzeEmail(context.Context, string, string) (*model.AnalysisResult, error) {
	return &model.AnalysisResult{RawAnalysis: "ok"}, nil
}

func newTestModel(t *testing.T) (Model, *store.SQLiteStore) {
	t.Helper()

	s := testutil.NewTestStore(t)
	cfg := &model.AppConfig{Poll: model.PollConfig{IntervalMS: 60000, PreviewLimit: 500}}

	m := New(Deps{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		Store:      s,
		Service:    nopService{},
		Copier:     clipboard.Func(func(string) error { return nil }),
		Logger:     log.New(io.Discard),
	})
	t.Cleanup(m.poller.Stop)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), s
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestFirstRunOpensHostConfig(t *testing.T) {
	m, s := newTestModel(t)

	msg := loadActiveHost(s, nil, "", log.New(io.Discard))()
	opened, ok := msg.(hostOpenedMsg)
	require.True(t, ok)
	assert.Empty(t, opened.host.ID)

	m = update(t, m, opened)
	assert.Equal(t, ViewConfig, m.currentView)
	assert.Equal(t, "no mail host", m.hostStatus())
}

func TestOpensFirstSavedHostAndRemembersIt(t *testing.T) {
	m, s := newTestModel(t)

	saved, err := s.UpsertHost(context.Background(), model.HostConfig{
		Type:     model.HostTypeFile,
		Name:     "Draft",
		Settings: map[string]string{profile.KeyPath: filepath.Join(t.TempDir(), "draft.txt")},
	})
	require.NoError(t, err)

	msg := loadActiveHost(s, nil, "missing-id", log.New(io.Discard))()
	opened := msg.(hostOpenedMsg)
	require.NoError(t, opened.err)
	assert.True(t, opened.persist)

	m = update(t, m, opened)
	assert.Equal(t, ViewTabs, m.currentView)
	assert.Equal(t, saved.ID, m.cfg.Host.Active)
	assert.Equal(t, saved.ID, m.session.hostID())
	assert.Equal(t, "Using Draft", m.statusMsg)
	assert.Equal(t, "file:draft.txt · no email", m.hostStatus())

	m = update(t, m, appsync.BodyPolledMsg{MessageID: "x", HasEmail: true, Body: "Hi", Preview: "Hi"})
	assert.Equal(t, "file:draft.txt · email open", m.hostStatus())

	m = update(t, m, configview.HostDeletedMsg{ID: saved.ID})
	assert.Empty(t, m.session.hostID())
	assert.Empty(t, m.cfg.Host.Active)
	assert.Equal(t, "no mail host", m.hostStatus())
}

func TestTabNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, ui.ScreenReword, m.activeTab)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ui.ScreenCompose, m.activeTab)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ui.ScreenAnalyze, m.activeTab)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, ViewHelp, m.currentView)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewTabs, m.currentView)
	assert.Equal(t, ui.ScreenAnalyze, m.activeTab)
}

func TestGenerateResponseSwitchesToCompose(t *testing.T) {
	m, _ := newTestModel(t)
	m.shared.Set(&model.AnalysisResult{RawAnalysis: "Hello"}, ai.SourceAnalyzeScreen)
	m.shared.SetUseForCompose(true)

	m = update(t, m, analyzeview.GenerateResponseMsg{})

	assert.Equal(t, ui.ScreenCompose, m.activeTab)
	assert.True(t, m.composeOp.IncludeAnalysis())
}

func TestGenerateResponseReplacesComposeAnalysis(t *testing.T) {
	m, _ := newTestModel(t)
	require.NoError(t, m.composeOp.PrepareAnalyze())
	require.NoError(t, m.composeOp.CompleteAnalyze(&model.AnalysisResult{RawAnalysis: "OLD"}, nil))

	fresh := &model.AnalysisResult{RawAnalysis: "NEW"}
	m.shared.Set(fresh, ai.SourceAnalyzeScreen)
	m.shared.SetUseForCompose(true)

	m = update(t, m, analyzeview.GenerateResponseMsg{Analysis: fresh})

	assert.Equal(t, ui.ScreenCompose, m.activeTab)
	assert.Same(t, fresh, m.composeOp.Analysis())
	assert.True(t, m.composeOp.IncludeAnalysis())
}

func TestComposeAnalysisUpdatedFlashesStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentView = ViewTabs
	m = update(t, m, composeview.AnalysisUpdatedMsg{})
	assert.Equal(t, "Email analyzed; analysis will be included", m.keyHints())
}

func TestPaletteCommands(t *testing.T) {
	m, _ := newTestModel(t)
	m.shared.Set(&model.AnalysisResult{RawAnalysis: "Hello"}, ai.SourceAnalyzeScreen)

	m = update(t, m, command.CommandMsg{Name: command.CmdReset})
	assert.Nil(t, m.shared.Get())
	assert.Equal(t, "Analysis context cleared", m.keyHints())

	m = update(t, m, command.CommandMsg{Name: command.CmdCompose})
	assert.Equal(t, ui.ScreenCompose, m.activeTab)

	m = update(t, m, command.CommandMsg{Name: command.CmdHosts})
	assert.Equal(t, ViewConfig, m.currentView)

	m = update(t, m, configview.ConfigDoneMsg{})
	assert.Equal(t, ViewTabs, m.currentView)

	m = update(t, m, hostsListedMsg{name: "nope"})
	assert.Equal(t, `No host named "nope"`, m.statusMsg)

	m = update(t, m, command.UnknownCommandMsg("xyz"))
	assert.Equal(t, `Unknown command "xyz"`, m.statusMsg)
}

func TestFindHost(t *testing.T) {
	hosts := []model.HostConfig{{ID: "a", Name: "Work"}, {ID: "b", Name: "Home"}}

	h, ok := findHost(hosts, "work")
	require.True(t, ok)
	assert.Equal(t, "a", h.ID)

	h, ok = findHost(hosts, "b")
	require.True(t, ok)
	assert.Equal(t, "Home", h.Name)

	_, ok = findHost(hosts, "other")
	assert.False(t, ok)
}

func TestViewRendersFrame(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "taskpane")
	assert.Contains(t, view, "Reword")
	assert.Contains(t, view, "Analyze")
}
