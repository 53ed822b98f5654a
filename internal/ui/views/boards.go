package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

type boardItem struct {
	board models.Board
}

func (i boardItem) Title() string       { return i.board.Name }
func (i boardItem) Description() string { return i.board.Description }
func (i boardItem) FilterValue() string { return i.board.Name }

type boardDelegate struct {
	styles *styles.Styles
	width  int
}

func (d boardDelegate) Height() int                               { return 2 }
func (d boardDelegate) Spacing() int                              { return 1 }
func (d boardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d boardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	b, ok := item.(boardItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(b.Title())
	desc := descStyle.Render(b.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// BoardListView shows all boards and lets the user pick the current one
type BoardListView struct {
	store    *store.Store
	list     list.Model
	delegate *boardDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	creating         bool
	confirmingDelete bool
	deleteTargetID   string
	newName          textinput.Model
	newDesc          textinput.Model
	focusIdx         int // 0=name, 1=desc, 2=confirm
}

// SelectedBoard signals that a board was chosen
type SelectedBoard struct {
	Board models.Board
}

type boardsLoadedMsg struct {
	boards []models.Board
}

// NewBoardListView creates the board list view
func NewBoardListView(st *store.Store) *BoardListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Board name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := &boardDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Boards"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &BoardListView{
		store:    st,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
	}
}

// Init loads the boards
func (v *BoardListView) Init() tea.Cmd {
	return v.loadBoards
}

func (v *BoardListView) loadBoards() tea.Msg {
	return boardsLoadedMsg{boards: v.store.Boards()}
}

// Update handles messages
func (v *BoardListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case boardsLoadedMsg:
		items := make([]list.Item, len(msg.boards))
		for i, b := range msg.boards {
			items[i] = boardItem{board: b}
		}
		v.list.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.focusIdx = 0
			v.newName.Reset()
			v.newDesc.Reset()
			v.newName.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(boardItem); ok {
				return v, func() tea.Msg {
					return SelectedBoard{Board: item.board}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(boardItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.board.ID
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *BoardListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.store.DeleteBoard(v.deleteTargetID); err == nil {
			return v, v.loadBoards
		}
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *BoardListView) submitCreate() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		return v, nil
	}

	createdBy := ""
	if u := v.store.CurrentUser(); u != nil {
		createdBy = u.ID
	}
	board, err := v.store.AddBoard(store.BoardDraft{
		Name:        name,
		Description: strings.TrimSpace(v.newDesc.Value()),
		CreatedBy:   createdBy,
	})
	if err != nil {
		return v, nil
	}
	v.creating = false
	return v, func() tea.Msg {
		return SelectedBoard{Board: board}
	}
}

func (v *BoardListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

// View renders the view
func (v *BoardListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderStatus() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *BoardListView) renderStatus() string {
	user := "not logged in"
	if u := v.store.CurrentUser(); u != nil {
		user = fmt.Sprintf("%s (%s)", u.Name, u.Role)
	}
	return v.styles.StatusBar.Render("logged in as " + user)
}

func (v *BoardListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Boards"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first board"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Board"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Enter: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s del • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *BoardListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Board?"),
		"",
		s.TitleMuted.Render("Tasks on this board stay in the store but become invisible."),
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
