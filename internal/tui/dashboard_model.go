package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/quickmood"
)

// DashboardLoader is the dashboard data source
type DashboardLoader interface {
	Refresh(ctx context.Context) (dashboard.View, error)
}

// QuickMoodLogger is the single-tap mood control
type QuickMoodLogger interface {
	Log(ctx context.Context, emoji parser.Emoji) (quickmood.Result, error)
	InFlight() bool
}

type dashboardLoadedMsg struct {
	view dashboard.View
	err  error
}

type quickMoodLoggedMsg struct {
	emoji parser.Emoji
	res   quickmood.Result
	err   error
}

// DashboardModel is the interactive dashboard
type DashboardModel struct {
	ctx    context.Context
	loader DashboardLoader
	moods  QuickMoodLogger
	now    func() time.Time

	width  int
	height int

	view    dashboard.View
	hasView bool

	loading   bool
	logging   bool
	status    string
	statusErr bool

	spinner spinner.Model
	shimmer *Shimmer
}

// NewDashboardModel creates a dashboard model that loads on start
func NewDashboardModel(ctx context.Context, loader DashboardLoader, moods QuickMoodLogger) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return DashboardModel{
		ctx:     ctx,
		loader:  loader,
		moods:   moods,
		now:     time.Now,
		loading: true,
		spinner: s,
		shimmer: NewShimmer(),
	}
}

// Init starts the first load
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), shimmerTick())
}

func shimmerTick() tea.Cmd {
	return tea.Tick(shimmerInterval, func(time.Time) tea.Msg {
		return shimmerTickMsg{}
	})
}

func (m DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.loader.Refresh(m.ctx)
		return dashboardLoadedMsg{view: view, err: err}
	}
}

func (m DashboardModel) quickMoodCmd(emoji parser.Emoji) tea.Cmd {
	return func() tea.Msg {
		res, err := m.moods.Log(m.ctx, emoji)
		return quickMoodLoggedMsg{emoji: emoji, res: res, err: err}
	}
}

func (m DashboardModel) busy() bool {
	return m.loading || m.logging
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case shimmerTickMsg:
		if !m.loading {
			return m, nil
		}
		m.shimmer.Advance(len([]rune(m.title())))
		return m, shimmerTick()

	case dashboardLoadedMsg:
		m.loading = false
		m.shimmer.SetActive(false)
		if msg.err != nil {
			// a failed summary leaves nothing to show
			m.hasView = false
			m.setStatus("Failed to load dashboard. Press r to retry.", true)
			return m, nil
		}
		m.view = msg.view
		m.hasView = true
		if m.status != "" && m.statusErr {
			m.setStatus("", false)
		}
		return m, nil

	case quickMoodLoggedMsg:
		m.logging = false
		switch {
		case errors.Is(msg.err, quickmood.ErrInFlight):
			return m, nil
		case msg.err != nil:
			m.setStatus("Failed to log mood. Please try again.", true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Mood logged %s", msg.emoji), false)
		if msg.res.RefreshErr != nil {
			m.setStatus(fmt.Sprintf("Mood logged %s, but the dashboard could not refresh", msg.emoji), true)
			return m, nil
		}
		m.view = msg.res.View
		m.hasView = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.shimmer.SetActive(true)
			return m, tea.Batch(m.spinner.Tick, m.refreshCmd(), shimmerTick())

		case "1", "2", "3":
			if m.logging || m.moods.InFlight() {
				m.setStatus("Still saving your last mood...", false)
				return m, nil
			}
			emoji := parser.QuickMoods[int(msg.String()[0]-'1')]
			m.logging = true
			m.setStatus("", false)
			return m, tea.Batch(m.spinner.Tick, m.quickMoodCmd(emoji))
		}
	}

	return m, nil
}

func (m *DashboardModel) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func (m DashboardModel) title() string {
	return "HealthMate dashboard"
}

// View renders the TUI
func (m DashboardModel) View() string {
	var b strings.Builder

	title := headerStyle.Render("🩺 " + m.title())
	if m.loading {
		title = "🩺 " + m.shimmer.Render(m.title())
	}
	b.WriteString(title)
	if m.busy() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	if m.hasView {
		b.WriteString(mutedStyle.Render("updated " + m.view.LoadedAt.Format("15:04:05")))
	}
	b.WriteString("\n\n")

	switch {
	case m.hasView:
		b.WriteString(RenderDashboard(m.view, m.now()))
	case m.loading:
		b.WriteString(mutedStyle.Render("Loading your dashboard..."))
		b.WriteString("\n")
	default:
		b.WriteString(mutedStyle.Render("Nothing to show yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderQuickMoodBar())
	b.WriteString("\n")

	if m.status != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
		if m.statusErr {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("1/2/3: Quick mood | r: Refresh | q/Esc: Quit"))

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2)
	if m.width > 4 {
		frame = frame.Width(m.width - 4)
	}
	return frame.Render(b.String())
}

func (m DashboardModel) renderQuickMoodBar() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if m.logging {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	}
	parts := make([]string, 0, len(parser.QuickMoods))
	for i, emoji := range parser.QuickMoods {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, emoji))
	}
	return "How are you feeling? " + style.Render(strings.Join(parts, "  "))
}
