// Package tui provides the Bubble Tea training interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grandinquisitor/swipeback/internal/generator"
	"github.com/grandinquisitor/swipeback/internal/level"
	"github.com/grandinquisitor/swipeback/internal/model"
	"github.com/grandinquisitor/swipeback/internal/session"
	"github.com/grandinquisitor/swipeback/internal/soundbank"
	statsPkg "github.com/grandinquisitor/swipeback/internal/stats"
	"github.com/grandinquisitor/swipeback/internal/store"
)

// tickMsg drives the trial state machine. The generation pins the tick
// to the transition that scheduled it; stale ticks are dropped.
type tickMsg struct {
	generation uint64
}

// Model implements the Bubble Tea training UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	bank   *soundbank.Bank
	rules  level.Rules

	width  int
	height int

	sess      *session.Session
	level     int
	startedAt time.Time

	lastResult *model.SessionResult
	lastLevel  int
	nextLevel  int

	allSessions int
	allOverall  int
	bestOverall int
}

var (
	cellStyle = lipgloss.NewStyle().
			Width(7).Height(3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cellLitStyle = cellStyle.
			BorderForeground(lipgloss.Color("#C89A3A")).
			Background(lipgloss.Color("#3A3220"))
	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true)
	markStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	markUnsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle    = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	resultValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// NewModel constructs a training TUI model. The store and sound bank
// may be nil; play continues without persistence or audio.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, bank *soundbank.Bank, rules level.Rules) *Model {
	m := &Model{
		config: cfg,
		store:  st,
		gen:    gen,
		bank:   bank,
		rules:  rules,
		level:  cfg.Level,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.startRound()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		return m.handleTick(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.sess != nil {
			m.sess.Abort()
		}
		return m, tea.Quit
	}

	if m.sess == nil {
		return m, nil
	}
	if m.sess.State() == session.Ended {
		switch msg.String() {
		case "enter", " ":
			return m, m.startRound()
		}
		return m, nil
	}

	switch msg.String() {
	case "left":
		m.sess.MarkPosition()
	case "right":
		m.sess.MarkAudio()
	case "down":
		m.sess.MarkBoth()
	case "up":
		m.sess.ClearMarks()
	}
	return m, nil
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil || msg.generation != m.sess.Generation() {
		// A stale transition from before an abort or restart.
		return m, nil
	}
	switch m.sess.Advance() {
	case session.Gap:
		return m, m.scheduleTick(time.Duration(m.config.GapMs) * time.Millisecond)
	case session.ShowingStimulus:
		m.playCue()
		return m, m.scheduleTick(time.Duration(m.config.ShowMs) * time.Millisecond)
	case session.Ended:
		m.finishRound()
		return m, nil
	}
	return m, nil
}

func (m *Model) startRound() tea.Cmd {
	seq, err := m.gen.Generate(m.level, m.config.Trials)
	if err != nil {
		logErrf("failed to generate sequence: %v\n", err)
		return tea.Quit
	}
	sess, err := session.New(seq, m.level)
	if err != nil {
		logErrf("failed to create session: %v\n", err)
		return tea.Quit
	}
	if err := sess.Start(); err != nil {
		logErrf("failed to start session: %v\n", err)
		return tea.Quit
	}
	m.sess = sess
	m.startedAt = time.Now()
	m.playCue()
	return m.scheduleTick(time.Duration(m.config.ShowMs) * time.Millisecond)
}

func (m *Model) scheduleTick(d time.Duration) tea.Cmd {
	generation := m.sess.Generation()
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m *Model) playCue() {
	if m.bank == nil {
		return
	}
	if stim, ok := m.sess.Current(); ok {
		m.bank.Play(stim.Symbol)
	}
}

func (m *Model) finishRound() {
	endedAt := time.Now()
	result, err := m.sess.Result()
	if err != nil {
		logErrf("failed to score session: %v\n", err)
		return
	}
	m.lastResult = &result
	m.lastLevel = m.level

	rec := model.SessionRecord{
		StartedAt:   m.startedAt,
		EndedAt:     endedAt,
		Level:       m.level,
		Trials:      m.sess.Trials(),
		Alphabet:    m.config.Alphabet,
		PositionPct: result.PositionPct,
		AudioPct:    result.AudioPct,
		OverallPct:  result.OverallPct,
		PositionTP:  result.Position.TP,
		PositionFP:  result.Position.FP,
		PositionFN:  result.Position.FN,
		AudioTP:     result.Audio.TP,
		AudioFP:     result.Audio.FP,
		AudioFN:     result.Audio.FN,
		DurationMs:  endedAt.Sub(m.startedAt).Milliseconds(),
	}
	if m.store != nil {
		if _, err := m.store.InsertSession(context.Background(), rec); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
	}

	m.allSessions++
	m.allOverall += result.OverallPct
	if result.OverallPct > m.bestOverall {
		m.bestOverall = result.OverallPct
	}

	m.nextLevel = m.level
	if m.config.Adaptive {
		m.nextLevel = level.Next(m.level, result.OverallPct, m.rules)
		// A short round cannot host a higher lag.
		if m.config.Trials < generator.MinTrialsFor(m.nextLevel) {
			m.nextLevel = m.level
		}
	}
	m.level = m.nextLevel
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	sum := statsPkg.Summarize(sessions)
	m.allSessions = sum.Sessions
	m.allOverall = int(sum.AvgOverall * float64(sum.Sessions))
	m.bestOverall = sum.BestOverall
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return ""
	}
	var content string
	if m.sess.State() == session.Ended {
		content = m.renderResult()
	} else {
		content = m.renderTrial()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTrial() string {
	stim, _ := m.sess.Current()
	lit := -1
	symbol := ""
	if m.sess.State() == session.ShowingStimulus {
		lit = stim.Position
		symbol = strings.ToUpper(string(stim.Symbol))
	}
	grid := renderGrid(lit, symbol)
	marks := m.renderMarks()
	return lipgloss.JoinVertical(lipgloss.Center, grid, "", marks)
}

func (m *Model) renderMarks() string {
	resp := m.sess.Response(m.sess.Trial())
	parts := []string{
		renderMark("position", resp.Position == model.MarkYes),
		renderMark("audio", resp.Audio == model.MarkYes),
	}
	return strings.Join(parts, "  ")
}

func renderMark(label string, set bool) string {
	if set {
		return markStyle.Render("[" + label + "]")
	}
	return markUnsetStyle.Render(" " + label + " ")
}

func (m *Model) renderResult() string {
	r := m.lastResult
	if r == nil {
		return ""
	}
	table := statsPkg.FormatTable(
		[]string{"Channel", "Hit", "False", "Miss", "Score"},
		[][]string{
			{"Position", fmt.Sprintf("%d", r.Position.TP), fmt.Sprintf("%d", r.Position.FP), fmt.Sprintf("%d", r.Position.FN), fmt.Sprintf("%d%%", r.PositionPct)},
			{"Audio", fmt.Sprintf("%d", r.Audio.TP), fmt.Sprintf("%d", r.Audio.FP), fmt.Sprintf("%d", r.Audio.FN), fmt.Sprintf("%d%%", r.AudioPct)},
		},
		map[int]bool{1: true, 2: true, 3: true, 4: true},
	)
	lines := []string{
		fmt.Sprintf("Round complete (level %d)", m.lastLevel),
		"",
	}
	lines = append(lines, table...)
	lines = append(lines,
		"",
		fmt.Sprintf("Overall %s", resultValueStyle.Render(fmt.Sprintf("%d%%", r.OverallPct))),
		"",
	)
	switch {
	case m.nextLevel > m.lastLevel:
		lines = append(lines, fmt.Sprintf("Level up! Next round at level %d.", m.nextLevel))
	case m.nextLevel < m.lastLevel:
		lines = append(lines, fmt.Sprintf("Stepping back to level %d.", m.nextLevel))
	default:
		lines = append(lines, fmt.Sprintf("Staying at level %d.", m.nextLevel))
	}
	lines = append(lines, "", "enter: next round · q: quit")
	return resultStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Level %d", m.sess.Level()),
		fmt.Sprintf("Trial %d/%d", m.sess.Trial()+1, m.sess.Trials()),
	}
	if m.lastResult != nil {
		segments = append(segments, fmt.Sprintf("Last %d%%", m.lastResult.OverallPct))
	}
	if m.allSessions > 0 {
		avg := float64(m.allOverall) / float64(m.allSessions)
		segments = append(segments, fmt.Sprintf("All-time %.0f%% · best %d%%", avg, m.bestOverall))
	}
	segments = append(segments, "←pos →audio ↓both ↑clear")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
