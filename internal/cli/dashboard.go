package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/internal/observability"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// Dashboard panel indices.
const (
	panelKits = iota
	panelTasks
	panelCount
)

type dashboardModel struct {
	tracker     core.Tracker
	alertEngine observability.AlertEngine
	now         func() time.Time

	activePanel int
	width       int
	height      int

	// Data.
	kits    []*models.ApplicationKit
	counts  map[models.KitStatus]int
	tasks   []*models.NextStepTask
	alerts  int
	profile models.UserProfile

	// View state.
	tab        int
	query      string
	visible    []*models.ApplicationKit
	selection  *core.Selection
	kitCursor  int
	taskCursor int
	searching  bool
	search     textinput.Model
	notice     string

	loading bool
	err     error
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	kits    []*models.ApplicationKit
	counts  map[models.KitStatus]int
	tasks   []*models.NextStepTask
	alerts  int
	profile models.UserProfile
	notice  string
	err     error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	alertCount    = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	priorityHigh  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	priorityMed   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	priorityLow   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

func newDashboardModel(tracker core.Tracker, alertEngine observability.AlertEngine) dashboardModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "company or position"
	search.CharLimit = 64
	search.Width = 32

	return dashboardModel{
		tracker:     tracker,
		alertEngine: alertEngine,
		now:         func() time.Time { return time.Now().UTC() },
		activePanel: panelKits,
		counts:      make(map[models.KitStatus]int),
		selection:   core.NewSelection(nil),
		search:      search,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.loadCmd("")
}

func (m dashboardModel) currentTab() models.KitStatus {
	return models.AllStatuses[m.tab]
}

// applyFilter recomputes the visible kits for the current tab and query.
// Selected kits that leave the view are deselected.
func (m *dashboardModel) applyFilter() {
	m.visible = core.FilterKits(m.kits, m.currentTab(), m.query)
	m.selection.SetView(m.visible)
	if m.kitCursor >= len(m.visible) {
		m.kitCursor = len(m.visible) - 1
	}
	if m.kitCursor < 0 {
		m.kitCursor = 0
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.kits = msg.kits
		m.counts = msg.counts
		m.tasks = msg.tasks
		m.alerts = msg.alerts
		m.profile = msg.profile
		m.notice = msg.notice
		m.err = nil
		m.applyFilter()
		if m.taskCursor >= len(m.tasks) {
			m.taskCursor = max(len(m.tasks)-1, 0)
		}
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.applyFilter()
	return m, cmd
}

func (m dashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.applyFilter()
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		m.activePanel = (m.activePanel + 1) % panelCount
		return m, nil
	case "shift+tab":
		m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
		return m, nil
	case "left", "h":
		m.tab = (m.tab - 1 + len(models.AllStatuses)) % len(models.AllStatuses)
		m.kitCursor = 0
		m.applyFilter()
		return m, nil
	case "right", "l":
		m.tab = (m.tab + 1) % len(models.AllStatuses)
		m.kitCursor = 0
		m.applyFilter()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "/":
		m.searching = true
		m.search.SetValue(m.query)
		cmd := m.search.Focus()
		return m, cmd
	case "r":
		m.loading = true
		return m, m.loadCmd("")
	}

	if m.activePanel == panelKits {
		return m.updateKitKeys(msg)
	}
	return m.updateTaskKeys(msg)
}

func (m *dashboardModel) moveCursor(delta int) {
	if m.activePanel == panelKits {
		m.kitCursor = clamp(m.kitCursor+delta, len(m.visible))
		return
	}
	m.taskCursor = clamp(m.taskCursor+delta, len(m.tasks))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m dashboardModel) updateKitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if len(m.visible) == 0 {
			return m, nil
		}
		if err := m.selection.Toggle(m.visible[m.kitCursor].ID); err != nil {
			m.notice = err.Error()
		}
		return m, nil
	case "a":
		m.selection.ToggleAll()
		return m, nil
	case "A":
		return m.bulk(core.BulkArchive)
	case "D":
		return m.bulk(core.BulkDelete)
	}
	return m, nil
}

func (m dashboardModel) bulk(action core.BulkAction) (tea.Model, tea.Cmd) {
	if m.selection.Len() == 0 {
		m.notice = "Nothing selected."
		return m, nil
	}
	result, err := m.tracker.BulkApplySelection(action, m.selection)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.selection.ClearAll()
	m.loading = true
	notice := fmt.Sprintf("%s: %d succeeded, %d failed", action, len(result.Succeeded), len(result.Failed))
	return m, m.loadCmd(notice)
}

func (m dashboardModel) updateTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.tasks) == 0 {
		return m, nil
	}
	task := m.tasks[m.taskCursor]

	switch msg.String() {
	case " ":
		if _, err := m.tracker.ToggleTask(task.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.loading = true
		return m, m.loadCmd("")
	case "enter":
		wf, err := m.tracker.RunTaskAction(task.ID)
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		if wf == core.WorkflowNone {
			m.notice = fmt.Sprintf("%s: no workflow is registered for this action", task.ActionLabel)
		} else {
			m.notice = fmt.Sprintf("%s: opening %s workflow", task.ActionLabel, wf)
		}
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" jobkit ")
	if m.profile.DisplayName != "" {
		title += "  " + m.profile.DisplayName
	}
	help := helpStyle.Render("←/→: tab | ↑/↓: move | space: select/toggle | a: all | A: archive | D: delete | enter: run | /: search | tab: panel | r: refresh | q: quit")

	if m.loading && m.kits == nil {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	tabs := m.renderTabs()
	kitsPanel := m.renderKitsPanel()
	tasksPanel := m.renderTasksPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		kitWidth := availableWidth*3/5 - 4
		taskWidth := availableWidth - kitWidth - 8
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.applyPanelStyle(panelKits, kitsPanel, kitWidth),
			m.applyPanelStyle(panelTasks, tasksPanel, taskWidth))
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.applyPanelStyle(panelKits, kitsPanel, panelWidth),
			m.applyPanelStyle(panelTasks, tasksPanel, panelWidth))
	}

	var footer []string
	if m.searching || m.query != "" {
		footer = append(footer, m.search.View())
	}
	if m.alerts > 0 {
		footer = append(footer, alertCount.Render(fmt.Sprintf("%d active alert(s), run `jobkit alerts`", m.alerts)))
	}
	if m.notice != "" {
		footer = append(footer, noticeStyle.Render(m.notice))
	}
	footer = append(footer, help)

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, tabs, body, strings.Join(footer, "\n"))
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderTabs() string {
	parts := make([]string, len(models.AllStatuses))
	for i, s := range models.AllStatuses {
		label := fmt.Sprintf("%s (%d)", core.StatusLabel(s), m.counts[s])
		if i == m.tab {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m dashboardModel) renderKitsPanel() string {
	var b strings.Builder
	header := fmt.Sprintf("Kits: %s", core.StatusLabel(m.currentTab()))
	if n := m.selection.Len(); n > 0 {
		header += fmt.Sprintf(" (%d selected)", n)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString("  No kits found.")
		return b.String()
	}

	now := m.now()
	for i, k := range m.visible {
		cursor := "  "
		if i == m.kitCursor && m.activePanel == panelKits {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selection.IsSelected(k.ID) {
			check = "[x]"
		}
		pct := core.ComputeProgress(k)
		line := fmt.Sprintf("%s%s %-20s %-24s %3d%% %s %s",
			cursor, check,
			truncate(k.Company, 20), truncate(k.Position, 24),
			k.SkillMatch,
			progressStyle.Render(progressBar(pct, 10)),
			itemSummary(k))
		if core.IsOverdue(k, now) {
			line += " " + overdueStyle.Render("overdue "+formatDate(k.Deadline))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Next steps"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks.")
		return b.String()
	}

	now := m.now()
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.taskCursor && m.activePanel == panelTasks {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		desc := t.Description
		if t.Completed {
			check = "[x]"
			desc = doneStyle.Render(desc)
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, check, styleForPriority(t.Priority).Render(string(t.Priority)), desc)
		if t.DueDate != nil {
			due := "due " + formatDate(t.DueDate)
			if core.IsTaskOverdue(t, now) {
				due = overdueStyle.Render(due)
			}
			line += " " + due
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func styleForPriority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return priorityHigh
	case models.PriorityMedium:
		return priorityMed
	case models.PriorityLow:
		return priorityLow
	default:
		return lipgloss.NewStyle()
	}
}

// loadCmd reads the tracker and alert engine and reports the result as a
// dataLoadedMsg carrying notice.
func (m dashboardModel) loadCmd(notice string) tea.Cmd {
	tracker := m.tracker
	alertEngine := m.alertEngine
	return func() tea.Msg {
		return loadDashboardData(tracker, alertEngine, notice)
	}
}

func loadDashboardData(tracker core.Tracker, alertEngine observability.AlertEngine, notice string) tea.Msg {
	result := dataLoadedMsg{notice: notice}
	if tracker == nil {
		result.err = fmt.Errorf("tracker not initialized")
		return result
	}

	result.kits = tracker.AllKits()
	result.counts = tracker.StatusCounts()
	result.profile = tracker.Profile()

	tasks, err := tracker.ListTasks(core.SortDefault)
	if err != nil {
		result.err = fmt.Errorf("loading tasks: %w", err)
		return result
	}
	result.tasks = tasks

	if alertEngine != nil {
		result.alerts = len(alertEngine.Evaluate(result.kits, tasks))
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI for kits and next steps",
	Long: `Launch an interactive terminal dashboard with the kit pipeline tabs and
the next-step list.

Switch status tabs with left/right, move with up/down, select kits with
space (a toggles all), archive the selection with A or delete it with D.
Tab moves focus to the next steps, where space completes a task and enter
runs its action. Search with /, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}

		// Workflow notices are shown in the status line instead.
		if Navigator != nil {
			prev := Navigator.Out
			Navigator.Out = io.Discard
			defer func() { Navigator.Out = prev }()
		}

		p := tea.NewProgram(newDashboardModel(Tracker, AlertEngine), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
