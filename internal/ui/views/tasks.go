package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

var priorityOrder = []models.Priority{
	models.PriorityLow,
	models.PriorityMedium,
	models.PriorityHigh,
}

// nextStatus cycles a task through the workflow states
func nextStatus(s models.Status) models.Status {
	switch s {
	case models.StatusCreated:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	default:
		return models.StatusCreated
	}
}

// BackToBoards signals to go back to the board list
type BackToBoards struct{}

// LoggedOut signals that the session was ended from this view
type LoggedOut struct{}

type boardTasksLoadedMsg struct {
	tasks []models.Task
}

// TaskBoardView shows the tasks of the current board
type TaskBoardView struct {
	store  *store.Store
	board  models.Board
	tasks  []models.Task
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	cursor int

	// Task creation/editing
	editing      bool
	editingID    string // empty when creating
	editTitle    textinput.Model
	editDesc     textarea.Model
	editPriority int // index into priorityOrder
	editFocusIdx int // 0=title, 1=desc, 2=priority, 3=save

	// Read-only detail view with comment input
	viewing      bool
	commentInput textarea.Model

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
}

// NewTaskBoardView creates a task view for the given board
func NewTaskBoardView(st *store.Store, board models.Board) *TaskBoardView {
	s := styles.NewStyles()

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &TaskBoardView{
		store:        st,
		board:        board,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		editTitle:    editTitle,
		editDesc:     editDesc,
		commentInput: commentInput,
	}
}

// Init loads the board's tasks
func (v *TaskBoardView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *TaskBoardView) loadTasks() tea.Msg {
	return boardTasksLoadedMsg{tasks: v.store.CurrentBoardTasks()}
}

func (v *TaskBoardView) selectedTask() *models.Task {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return nil
	}
	return &v.tasks[v.cursor]
}

// Update handles messages
func (v *TaskBoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case boardTasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.viewing {
			return v.updateViewing(msg)
		}
		return v.updateList(msg)
	}

	return v, nil
}

func (v *TaskBoardView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToBoards{} }

	case key.Matches(msg, v.keys.Logout):
		if err := v.store.Logout(); err == nil {
			return v, func() tea.Msg { return LoggedOut{} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.openEditor(nil)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if t := v.selectedTask(); t != nil {
			v.openEditor(t)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Pin):
		if t := v.selectedTask(); t != nil {
			v.store.ToggleTaskPin(t.ID)
			return v, v.loadTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if t := v.selectedTask(); t != nil {
			next := nextStatus(t.Status)
			v.store.UpdateTask(t.ID, store.TaskPatch{Status: &next})
			return v, v.loadTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if t := v.selectedTask(); t != nil {
			v.confirmingDelete = true
			v.deleteTargetID = t.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.selectedTask() != nil {
			v.viewing = true
			v.commentInput.Reset()
		}
		return v, nil
	}

	return v, nil
}

func (v *TaskBoardView) openEditor(t *models.Task) {
	v.editing = true
	v.editFocusIdx = 0
	if t == nil {
		v.editingID = ""
		v.editTitle.Reset()
		v.editDesc.Reset()
		v.editPriority = 1 // medium
	} else {
		v.editingID = t.ID
		v.editTitle.SetValue(t.Title)
		v.editDesc.SetValue(t.Description)
		v.editPriority = 1
		for i, p := range priorityOrder {
			if p == t.Priority {
				v.editPriority = i
			}
		}
	}
	v.editTitle.Focus()
	v.editDesc.Blur()
}

func (v *TaskBoardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 4
		v.updateEditFocus()
		return v, nil

	case msg.String() == "left" && v.editFocusIdx == 2:
		v.editPriority = (v.editPriority + len(priorityOrder) - 1) % len(priorityOrder)
		return v, nil

	case msg.String() == "right" && v.editFocusIdx == 2:
		v.editPriority = (v.editPriority + 1) % len(priorityOrder)
		return v, nil

	case key.Matches(msg, v.keys.Enter) && v.editFocusIdx != 1:
		if v.editFocusIdx < 3 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
		return v.submitEdit()
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	return v, cmd
}

func (v *TaskBoardView) submitEdit() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		return v, nil
	}
	desc := strings.TrimSpace(v.editDesc.Value())
	priority := priorityOrder[v.editPriority]

	if v.editingID == "" {
		creatorID := ""
		if u := v.store.CurrentUser(); u != nil {
			creatorID = u.ID
		}
		_, err := v.store.AddTask(store.TaskDraft{
			Title:       title,
			Description: desc,
			Priority:    priority,
			CreatorID:   creatorID,
		})
		if err != nil {
			return v, nil
		}
	} else {
		err := v.store.UpdateTask(v.editingID, store.TaskPatch{
			Title:       &title,
			Description: &desc,
			Priority:    &priority,
		})
		if err != nil {
			return v, nil
		}
	}

	v.editing = false
	return v, v.loadTasks
}

func (v *TaskBoardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	}
}

func (v *TaskBoardView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		if v.commentInput.Focused() {
			v.commentInput.Blur()
			return v, nil
		}
		v.viewing = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		if v.commentInput.Focused() {
			v.commentInput.Blur()
		} else {
			v.commentInput.Focus()
		}
		return v, nil

	case msg.String() == "ctrl+s":
		content := strings.TrimSpace(v.commentInput.Value())
		if t := v.selectedTask(); t != nil && content != "" {
			if err := v.store.AddComment(t.ID, content); err == nil {
				v.commentInput.Reset()
				return v, v.loadTasks
			}
		}
		return v, nil
	}

	if v.commentInput.Focused() {
		var cmd tea.Cmd
		v.commentInput, cmd = v.commentInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *TaskBoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewing = false
		if err := v.store.DeleteTask(v.deleteTargetID); err == nil {
			return v, v.loadTasks
		}
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// View renders the view
func (v *TaskBoardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditor()
	}
	if v.viewing {
		return v.renderDetail()
	}
	return v.renderList()
}

func (v *TaskBoardView) renderList() string {
	s := v.styles
	var b strings.Builder

	b.WriteString(s.Title.Render(v.board.Name))
	b.WriteString("\n\n")

	if len(v.tasks) == 0 {
		b.WriteString(s.TitleMuted.Render("No tasks yet. Press 'n' to create one."))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, t := range v.tasks {
		b.WriteString(v.renderTaskLine(t, i == v.cursor, now))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderStats())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskBoardView) renderTaskLine(t models.Task, selected bool, now time.Time) string {
	s := v.styles

	marker := "  "
	if t.IsPinned {
		marker = s.Pinned.Render("* ")
	}

	var status string
	switch t.Status {
	case models.StatusCompleted:
		status = s.StatusDone.Render("[done]")
	case models.StatusInProgress:
		status = s.StatusActive.Render("[in progress]")
	default:
		status = s.TitleMuted.Render("[created]")
	}

	var prio string
	switch t.Priority {
	case models.PriorityHigh:
		prio = s.PriorityHigh.Render("high")
	case models.PriorityMedium:
		prio = s.PriorityMed.Render("med")
	default:
		prio = s.PriorityLow.Render("low")
	}

	deadline := ""
	if store.IsOverdue(t, now) {
		deadline = " " + s.Overdue.Render("overdue")
	} else if store.IsDueSoon(t, now) {
		deadline = " " + s.DueSoon.Render("due soon")
	} else if t.Deadline != nil {
		deadline = " " + s.TitleMuted.Render("due "+t.Deadline.Format("2006-01-02"))
	}

	title := t.Title
	if selected {
		title = s.ListSelected.Render(title)
	} else {
		title = s.ListItem.Render(title)
	}

	return fmt.Sprintf("%s%s %s %s%s", marker, title, status, prio, deadline)
}

func (v *TaskBoardView) renderStats() string {
	c := store.CountByStatus(v.tasks)
	rate := store.CompletionRate(v.tasks)
	overdue := store.OverdueCount(v.tasks, time.Now())

	line := fmt.Sprintf("%d tasks • %d in progress • %d done (%d%%)",
		len(v.tasks), c.InProgress, c.Completed, rate)
	if overdue > 0 {
		line += fmt.Sprintf(" • %d overdue", overdue)
	}
	return v.styles.StatusBar.Render(line)
}

func (v *TaskBoardView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s status • %s pin • %s del • %s boards • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("p"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskBoardView) renderEditor() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button
	prioLabel := string(priorityOrder[v.editPriority])

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		prioLabel = "< " + prioLabel + " >"
	case 3:
		btnStyle = s.ButtonFocused
	}

	heading := "New Task"
	if v.editingID != "" {
		heading = "Edit Task"
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.editDesc.View()),
		"",
		"Priority: "+prioLabel,
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: priority • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskBoardView) renderDetail() string {
	t := v.selectedTask()
	if t == nil {
		v.viewing = false
		return v.renderList()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	b.WriteString(s.Title.Render(t.Title))
	b.WriteString("\n\n")
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(s.TitleMuted.Render(fmt.Sprintf("status: %s • priority: %s", t.Status, t.Priority)))
	b.WriteString("\n")
	if t.Deadline != nil {
		b.WriteString(s.TitleMuted.Render("deadline: " + t.Deadline.Format("2006-01-02")))
		b.WriteString("\n")
	}
	if len(t.Attachments) > 0 {
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("%d attachment(s)", len(t.Attachments))))
		b.WriteString("\n")
	}

	if len(t.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Title.Render("Comments"))
		b.WriteString("\n")
		for _, c := range t.Comments {
			b.WriteString(fmt.Sprintf("%s %s\n",
				s.TitleMuted.Render(c.CreatedAt.Format("01-02 15:04")),
				c.Content,
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Popup.Render(v.commentInput.View()))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s comment field • %s save comment • %s back",
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("ctrl+s"),
			s.HelpKey.Render("esc"),
		),
	))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Left, lipgloss.Top,
		b.String(),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskBoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
