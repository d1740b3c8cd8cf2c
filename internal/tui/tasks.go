package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/focus"
)

var taskStatuses = []focus.TaskStatus{focus.TasksAll, focus.TasksActive, focus.TasksCompleted}

type tasksModel struct {
	ctl    *app.Controller
	width  int
	height int

	cursor int
	status int // index into taskStatuses
	query  string

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "search"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formPriority *focus.Priority
	formQuery    *string
}

func newTasksModel(c *app.Controller) tasksModel {
	title, query := "", ""
	prio := focus.PriorityNormal
	return tasksModel{
		ctl:          c,
		formTitle:    &title,
		formPriority: &prio,
		formQuery:    &query,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) filter() focus.TaskFilter {
	return focus.TaskFilter{Status: taskStatuses[m.status], Query: m.query}
}

func (m tasksModel) visible() []focus.Task {
	return m.ctl.Tasks(m.filter())
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	tasks := m.visible()
	m.cursor = clampCursor(m.cursor, len(tasks))

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.New):
		return m.showTaskForm(nil)
	case key.Matches(km, keys.Edit):
		if len(tasks) > 0 {
			return m.showTaskForm(&tasks[m.cursor])
		}
	case key.Matches(km, keys.Done):
		if len(tasks) > 0 {
			t, err := m.ctl.ToggleTask(tasks[m.cursor].ID)
			if err != nil {
				return m, errorCmd(err)
			}
			if t.Completed {
				return m, statusCmd("Completed: "+t.Title, false)
			}
			return m, statusCmd("Reopened: "+t.Title, false)
		}
	case key.Matches(km, keys.Delete):
		if len(tasks) > 0 {
			t := tasks[m.cursor]
			if err := m.ctl.DeleteTask(t.ID); err != nil {
				return m, errorCmd(err)
			}
			m.cursor = clampCursor(m.cursor, len(tasks)-1)
			return m, statusCmd("Deleted: "+t.Title, false)
		}
	case key.Matches(km, keys.Filter):
		m.status = (m.status + 1) % len(taskStatuses)
		m.cursor = 0
	case key.Matches(km, keys.Search):
		return m.showSearchForm()
	case key.Matches(km, keys.Back):
		m.query = ""
	}
	return m, nil
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}

// showTaskForm opens the add form, or the edit form when t is set.
func (m tasksModel) showTaskForm(t *focus.Task) (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formPriority = focus.PriorityNormal
	m.formType = "new"
	m.editingID = ""
	heading := "New Task"
	if t != nil {
		*m.formTitle = t.Title
		*m.formPriority = t.Priority
		m.formType = "edit"
		m.editingID = t.ID
		heading = "Edit Task"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(validateTitle),
			huh.NewSelect[focus.Priority]().Title("Priority").
				Options(
					huh.NewOption("Normal", focus.PriorityNormal),
					huh.NewOption("High", focus.PriorityHigh),
				).Value(m.formPriority),
		).Title(heading),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showSearchForm() (tasksModel, tea.Cmd) {
	*m.formQuery = m.query
	m.formType = "search"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search tasks").Placeholder("part of a title").Value(m.formQuery),
		),
	).WithShowHelp(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m.submitForm()
	}
	return m, cmd
}

func (m tasksModel) submitForm() (tasksModel, tea.Cmd) {
	switch m.formType {
	case "search":
		m.query = strings.TrimSpace(*m.formQuery)
		m.cursor = 0
		return m, nil
	case "edit":
		title, prio := *m.formTitle, *m.formPriority
		if _, err := m.ctl.EditTask(m.editingID, focus.TaskPatch{Title: &title, Priority: &prio}); err != nil {
			return m, errorCmd(err)
		}
		return m, statusCmd("Task updated", false)
	default:
		t, err := m.ctl.AddTask(*m.formTitle, *m.formPriority)
		if err != nil {
			return m, errorCmd(err)
		}
		return m, statusCmd("Added: "+t.Title, false)
	}
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(m.form.View())
	}

	done, total, pct := m.ctl.TaskProgress()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tasks"), "  ",
		m.renderFilterTabs(), "  ",
		mutedStyle.Render(fmt.Sprintf("%d/%d done (%d%%)", done, total, pct)),
	)

	rows := []string{header}
	if m.query != "" {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  matching %q (esc to clear)", m.query)))
	}
	rows = append(rows, "")

	tasks := m.visible()
	cursor := clampCursor(m.cursor, len(tasks))
	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks. Press n to add one."))
	}
	titleWidth := uint(max(w-16, 10))
	for i, t := range tasks {
		rows = append(rows, renderTaskRow(t, i == cursor, titleWidth))
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  e: edit  x: done/undo  d: delete  v: filter  /: search"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m tasksModel) renderFilterTabs() string {
	var tabs []string
	for i, s := range taskStatuses {
		label := strings.ToUpper(string(s[:1])) + string(s[1:])
		if i == m.status {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func renderTaskRow(t focus.Task, selected bool, width uint) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if t.Completed {
		check = successStyle.Render("[x]")
	}
	prio := " "
	if t.Priority == focus.PriorityHigh {
		prio = accentStyle.Render("!")
	}

	title := truncate.StringWithTail(t.Title, width, "…")
	style := normalItemStyle
	switch {
	case selected:
		style = selectedItemStyle
	case t.Completed:
		style = doneItemStyle
	}
	return fmt.Sprintf("%s%s %s %s", cursor, check, prio, style.Render(title))
}

func clampCursor(cursor, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}
