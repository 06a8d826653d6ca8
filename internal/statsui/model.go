// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grandinquisitor/swipeback/internal/model"
	"github.com/grandinquisitor/swipeback/internal/stats"
	"github.com/grandinquisitor/swipeback/internal/store"
)

const (
	tabOverview = iota
	tabLevels
	tabHistory
)

const historyLimit = 50

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report  stats.Report
	history []model.SessionRecord
	errMsg  string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	levelTable   table.Model
	historyTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Levels", "History"},
	}
	m.initFilterInputs()
	m.initTables()
	m.overview = viewport.New(0, 0)
	// Size to the terminal before the first WindowSizeMsg arrives so
	// the initial frame is not drawn at zero width.
	m.width = stats.TerminalWidth()
	m.height = 24
	m.layout()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
			return m, nil
		case "f":
			m.openFilter()
			return m, nil
		}
		return m.updateActiveTab(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateActiveTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case tabLevels:
		m.levelTable, cmd = m.levelTable.Update(msg)
	case tabHistory:
		m.historyTable, cmd = m.historyTable.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.filterMode {
		return m.viewFilter()
	}
	nav := m.renderNav()
	var body string
	switch m.activeTab {
	case tabOverview:
		body = m.overview.View()
	case tabLevels:
		body = m.levelTable.View()
	case tabHistory:
		body = m.historyTable.View()
	}
	parts := []string{nav}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	parts = append(parts, body, headerStyle.Render("tab: switch · f: filter · q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderNav() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		rendered = append(rendered, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) layout() {
	bodyHeight := m.height - 6
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.levelTable.SetWidth(width)
	m.levelTable.SetHeight(bodyHeight)
	m.historyTable.SetWidth(width)
	m.historyTable.SetHeight(bodyHeight)
	m.renderOverview()
}

func (m *Model) refreshReport() {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, m.store, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load stats: %v", err)
		return
	}
	history, err := m.store.RecentResults(ctx, historyLimit)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.history = history
	m.fillTables()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	sum := m.report.Summary
	if sum.Sessions == 0 {
		m.overview.SetContent("No sessions recorded yet.")
		return
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		renderCard("Trials", fmt.Sprintf("%d", sum.Trials)),
		renderCard("Avg", fmt.Sprintf("%.0f%%", sum.AvgOverall)),
		renderCard("Best", fmt.Sprintf("%d%%", sum.BestOverall)),
		renderCard("Top level", fmt.Sprintf("%d", sum.BestLevel)),
	)

	width := m.overview.Width - 2
	if width < 10 {
		width = 10
	}
	series := stats.OverallSeries(m.report.Sessions)
	if m.cfg.CurveWindow > 1 {
		series = stats.MovingAverage(series, m.cfg.CurveWindow)
	}
	spark := stats.Sparkline(stats.Resample(series, width))

	lines := []string{
		cards,
		"",
		headerStyle.Render("Overall score, oldest to newest:"),
		spark,
		"",
		fmt.Sprintf("Last session: %d%% at level %d", sum.LastOverall, sum.LastLevel),
	}
	m.overview.SetContent(strings.Join(lines, "\n"))
}

func renderCard(title, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		cardValueStyle.Render(value),
	))
}

func (m *Model) initTables() {
	levelCols := []table.Column{
		{Title: "Level", Width: 6},
		{Title: "Sessions", Width: 9},
		{Title: "Trials", Width: 7},
		{Title: "Avg", Width: 6},
		{Title: "Best", Width: 6},
	}
	m.levelTable = table.New(table.WithColumns(levelCols), table.WithFocused(true))

	historyCols := []table.Column{
		{Title: "Ended", Width: 17},
		{Title: "Level", Width: 6},
		{Title: "Trials", Width: 7},
		{Title: "Pos", Width: 5},
		{Title: "Audio", Width: 6},
		{Title: "Overall", Width: 8},
	}
	m.historyTable = table.New(table.WithColumns(historyCols), table.WithFocused(true))
}

func (m *Model) fillTables() {
	levelRows := make([]table.Row, 0, len(m.report.Levels))
	for _, agg := range m.report.Levels {
		levelRows = append(levelRows, table.Row{
			strconv.Itoa(agg.Level),
			strconv.Itoa(agg.Sessions),
			strconv.Itoa(agg.Trials),
			fmt.Sprintf("%.0f%%", agg.AvgOverall),
			fmt.Sprintf("%d%%", agg.BestOverall),
		})
	}
	m.levelTable.SetRows(levelRows)

	historyRows := make([]table.Row, 0, len(m.history))
	for _, rec := range m.history {
		historyRows = append(historyRows, table.Row{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(rec.Level),
			strconv.Itoa(rec.Trials),
			fmt.Sprintf("%d%%", rec.PositionPct),
			fmt.Sprintf("%d%%", rec.AudioPct),
			fmt.Sprintf("%d%%", rec.OverallPct),
		})
	}
	m.historyTable.SetRows(historyRows)
}

func (m *Model) initFilterInputs() {
	levelInput := textinput.New()
	levelInput.Placeholder = "any"
	levelInput.Prompt = "Level: "
	levelInput.CharLimit = 1

	lastInput := textinput.New()
	lastInput.Placeholder = "all"
	lastInput.Prompt = "Last N sessions: "
	lastInput.CharLimit = 4

	m.filterInputs = []textinput.Model{levelInput, lastInput}
}

func (m *Model) openFilter() {
	m.filterMode = true
	m.filterError = ""
	m.filterIndex = 0
	if m.cfg.Level > 0 {
		m.filterInputs[0].SetValue(strconv.Itoa(m.cfg.Level))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.focusFilterInput(0)
}

func (m *Model) focusFilterInput(idx int) {
	for i := range m.filterInputs {
		if i == idx {
			m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	m.filterIndex = idx
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		return m, nil
	case "tab", "down":
		m.focusFilterInput((m.filterIndex + 1) % len(m.filterInputs))
		return m, nil
	case "shift+tab", "up":
		m.focusFilterInput((m.filterIndex - 1 + len(m.filterInputs)) % len(m.filterInputs))
		return m, nil
	case "enter":
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) applyFilter() error {
	levelValue := strings.TrimSpace(m.filterInputs[0].Value())
	lastValue := strings.TrimSpace(m.filterInputs[1].Value())

	levelFilter := 0
	if levelValue != "" {
		parsed, err := strconv.Atoi(levelValue)
		if err != nil || parsed < model.MinLevel || parsed > model.MaxLevel {
			return fmt.Errorf("level must be a number in [%d,%d]", model.MinLevel, model.MaxLevel)
		}
		levelFilter = parsed
	}
	lastFilter := 0
	if lastValue != "" {
		parsed, err := strconv.Atoi(lastValue)
		if err != nil || parsed < 0 {
			return fmt.Errorf("last must be a non-negative number")
		}
		lastFilter = parsed
	}
	m.cfg.Level = levelFilter
	m.cfg.Last = lastFilter
	return nil
}

func (m *Model) viewFilter() string {
	lines := []string{"Filter sessions", ""}
	for i := range m.filterInputs {
		lines = append(lines, m.filterInputs[i].View())
	}
	if m.filterError != "" {
		lines = append(lines, "", errorStyle.Render(m.filterError))
	}
	lines = append(lines, "", headerStyle.Render("enter: apply · esc: cancel"))
	modal := modalStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
