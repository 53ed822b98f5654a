// Package ui is the presentation collaborator: it reads snapshots and
// derived views from the store and issues commands into it. It holds
// no task state of its own.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewBoards
	ViewTasks
)

// StateChanged is sent from outside the program when the store
// commits an action, so the active view reloads its data.
type StateChanged struct{}

// App is the root bubbletea model
type App struct {
	store       *store.Store
	currentView View
	login       *views.LoginView
	boardList   *views.BoardListView
	taskBoard   *views.TaskBoardView
	width       int
	height      int
}

// NewApp creates the application model
func NewApp(st *store.Store) *App {
	a := &App{
		store:     st,
		login:     views.NewLoginView(st),
		boardList: views.NewBoardListView(st),
	}
	if st.IsAuthenticated() {
		a.currentView = ViewBoards
	} else {
		a.currentView = ViewLogin
	}
	return a
}

// Init resumes the last opened board if one is recorded
func (a *App) Init() tea.Cmd {
	if a.currentView == ViewLogin {
		return a.login.Init()
	}

	if id := a.store.CurrentBoardID(); id != "" {
		for _, b := range a.store.Boards() {
			if b.ID == id {
				return a.openBoard(b)
			}
		}
	}
	return a.boardList.Init()
}

func (a *App) openBoard(board models.Board) tea.Cmd {
	a.currentView = ViewTasks
	a.taskBoard = views.NewTaskBoardView(a.store, board)
	a.store.SetCurrentBoard(board.ID)

	return tea.Batch(
		a.taskBoard.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.boardList.Update(msg)
		a.login.Update(msg)

	case StateChanged:
		switch a.currentView {
		case ViewBoards:
			return a, a.boardList.Init()
		case ViewTasks:
			return a, a.taskBoard.Init()
		}
		return a, nil

	case views.LoggedIn:
		a.currentView = ViewBoards
		return a, tea.Batch(
			a.boardList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.LoggedOut:
		a.currentView = ViewLogin
		a.login = views.NewLoginView(a.store)
		return a, tea.Batch(
			a.login.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.SelectedBoard:
		return a, a.openBoard(msg.Board)

	case views.BackToBoards:
		a.currentView = ViewBoards
		return a, tea.Batch(
			a.boardList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewBoards:
		_, cmd = a.boardList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskBoard.Update(msg)
	}

	return a, cmd
}

// View renders the active view
func (a *App) View() string {
	switch a.currentView {
	case ViewLogin:
		return a.login.View()
	case ViewTasks:
		if a.taskBoard != nil {
			return a.taskBoard.View()
		}
	}
	return a.boardList.View()
}
