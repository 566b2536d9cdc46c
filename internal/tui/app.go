// Package tui provides the interactive dashboard for taskwell.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ondrejk/taskwell/internal/task"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#6366F1")
	secondaryColor = lipgloss.Color("#06B6D4")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	formLabelStyle = lipgloss.NewStyle().Foreground(secondaryColor)
)

// App is the dashboard TUI model.
type App struct {
	store       *task.Store
	tasks       []task.Task
	selectedIdx int
	spinner     spinner.Model
	form        *taskForm
	month       time.Time // first day of the month shown by the calendar
	mode        string    // "list", "calendar", "form", "confirm"
	confirmID   string
	width       int
	height      int
	message     string
}

// New creates the dashboard over an already-gated task store.
func New(store *task.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	now := time.Now()
	return &App{
		store:   store,
		spinner: sp,
		mode:    "list",
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
	}
}

// Run starts the dashboard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.initialFetch())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch a.mode {
		case "form":
			return a.updateForm(msg)
		case "confirm":
			return a.updateConfirm(msg)
		case "calendar":
			return a.updateCalendar(msg)
		default:
			return a.updateList(msg)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tasksLoadedMsg:
		a.tasks = msg.tasks
		a.clampSelection()

	case fetchFailedMsg:
		a.message = "Error: " + msg.err.Error()

	case taskSavedMsg:
		a.tasks = a.store.Tasks()
		a.clampSelection()
		a.mode = "list"
		a.form = nil
		a.message = fmt.Sprintf("✓ Saved %q", msg.task.Title)

	case taskDeletedMsg:
		a.tasks = a.store.Tasks()
		a.clampSelection()
		a.message = "✓ Task deleted"

	case taskToggledMsg:
		a.tasks = a.store.Tasks()
		state := "open"
		if msg.task.IsCompleted {
			state = "done"
		}
		a.message = fmt.Sprintf("✓ %q marked %s", msg.task.Title, state)

	case errMsg:
		a.message = "Error: " + msg.err.Error()
	}

	// Cursor blink and other input messages still need to reach the form.
	if a.mode == "form" && a.form != nil {
		return a, a.form.Update(msg)
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit

	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}

	case "down", "j":
		if a.selectedIdx < len(a.tasks)-1 {
			a.selectedIdx++
		}

	case "a":
		a.form = newTaskForm()
		a.mode = "form"
		a.message = ""
		return a, textinput.Blink

	case "e":
		if t, ok := a.selected(); ok {
			a.form = newEditForm(t)
			a.mode = "form"
			a.message = ""
			return a, textinput.Blink
		}

	case "d", "x":
		if t, ok := a.selected(); ok {
			a.confirmID = t.ID
			a.mode = "confirm"
		}

	case " ", "enter":
		if t, ok := a.selected(); ok {
			return a, a.toggleTask(t.ID)
		}

	case "c":
		a.mode = "calendar"

	case "r":
		return a, a.refresh()
	}
	return a, nil
}

func (a *App) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "esc", "c":
		a.mode = "list"
	case "left", "h":
		a.month = a.month.AddDate(0, -1, 0)
	case "right", "l":
		a.month = a.month.AddDate(0, 1, 0)
	}
	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.mode = "list"
		a.form = nil
		return a, nil
	case "enter":
		form, err := a.form.FormData()
		if err != nil {
			// Keep the user's input in place for retry.
			a.message = "Error: " + err.Error()
			return a, nil
		}
		if a.form.editID != "" {
			return a, a.updateTask(a.form.editID, form)
		}
		return a, a.createTask(form)
	}
	return a, a.form.Update(msg)
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := a.confirmID
		a.confirmID = ""
		a.mode = "list"
		return a, a.deleteTask(id)
	case "n", "N", "esc":
		a.confirmID = ""
		a.mode = "list"
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("TASKWELL")
	header += "  " + lipgloss.NewStyle().Foreground(secondaryColor).
		Render(fmt.Sprintf("[%d tasks]", len(a.tasks)))
	if a.store.Status() == task.StatusLoading {
		header += "  " + a.spinner.View()
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	contentHeight := a.height - 6
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case "form":
		b.WriteString(a.form.View())
	case "confirm":
		b.WriteString(a.renderConfirm())
	case "calendar":
		b.WriteString(a.renderCalendar(contentHeight))
	default:
		b.WriteString(a.renderList(contentHeight))
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}
	b.WriteString("\n")

	var status string
	switch a.mode {
	case "calendar":
		status = " ←→:month | c/Esc:list | q:quit"
	case "form":
		status = " Enter:save | Esc:cancel"
	case "confirm":
		status = " y:delete | n:keep"
	default:
		status = fmt.Sprintf(" Tasks: %d | ↑↓:nav | Space:toggle | a:add | e:edit | d:delete | c:calendar | r:refresh | q:quit", len(a.tasks))
	}
	b.WriteString(statusBarStyle.Width(max(a.width, 20)).Render(status))

	return b.String()
}

func (a *App) renderList(height int) string {
	switch a.store.Status() {
	case task.StatusLoading:
		return "\n  " + a.spinner.View() + " Loading tasks...\n"
	case task.StatusFailed:
		return "\n  " + lipgloss.NewStyle().Foreground(errorColor).
			Render("Could not load tasks: "+a.store.LastError()) + "\n"
	}
	if len(a.tasks) == 0 {
		return "\n  No tasks yet. Press a to create one.\n"
	}

	var lines []string
	for i, t := range a.tasks {
		mark := "○"
		title := t.Title
		if t.IsCompleted {
			mark = "●"
			title = doneStyle.Render(title)
		}
		when := t.ScheduledOn.Local().Format("Jan 02 15:04")
		line := fmt.Sprintf("%s %s  %s", mark, when, title)
		if i == a.selectedIdx {
			lines = append(lines, selectedStyle.Render("▶ "+line))
		} else {
			lines = append(lines, taskItemStyle.Render("  "+line))
		}
	}

	if len(lines) > height {
		start := a.selectedIdx - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderConfirm() string {
	t, ok := a.store.Get(a.confirmID)
	if !ok {
		return "\n  Task is gone already.\n"
	}
	return fmt.Sprintf("\n  Delete %q? (y/n)\n", t.Title)
}

func (a *App) selected() (task.Task, bool) {
	if a.selectedIdx < 0 || a.selectedIdx >= len(a.tasks) {
		return task.Task{}, false
	}
	return a.tasks[a.selectedIdx], true
}

func (a *App) clampSelection() {
	if a.selectedIdx >= len(a.tasks) {
		a.selectedIdx = max(0, len(a.tasks)-1)
	}
}

// initialFetch runs the store's first fetch. Later refreshes go through
// refresh(); the store itself never re-fetches on its own.
func (a *App) initialFetch() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.EnsureFetched(); err != nil {
			return fetchFailedMsg{err}
		}
		return tasksLoadedMsg{a.store.Tasks()}
	}
}

func (a *App) refresh() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.FetchAll(); err != nil {
			return fetchFailedMsg{err}
		}
		return tasksLoadedMsg{a.store.Tasks()}
	}
}

func (a *App) createTask(form task.FormData) tea.Cmd {
	return func() tea.Msg {
		created, err := a.store.Create(form)
		if err != nil {
			return errMsg{err}
		}
		return taskSavedMsg{created}
	}
}

func (a *App) updateTask(id string, form task.FormData) tea.Cmd {
	return func() tea.Msg {
		updated, err := a.store.Update(id, form)
		if err != nil {
			return errMsg{err}
		}
		return taskSavedMsg{updated}
	}
}

func (a *App) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Delete(id); err != nil {
			return errMsg{err}
		}
		return taskDeletedMsg{id}
	}
}

func (a *App) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		toggled, err := a.store.ToggleCompletion(id)
		if err != nil {
			return errMsg{err}
		}
		return taskToggledMsg{toggled}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
