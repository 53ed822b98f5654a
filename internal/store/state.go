// Package store holds the application's canonical state: users,
// tasks, boards and the session. State changes only through actions
// dispatched into a pure reducer; every committed action is mirrored
// to the backing store so state survives restarts.
package store

import (
	"taskboard/internal/models"
)

// State is the canonical application state. The Store owns the one
// live instance; everything handed out is a snapshot.
type State struct {
	Users  []models.User
	Tasks  []models.Task
	Boards []models.Board

	// Session
	CurrentUser     *models.User
	IsAuthenticated bool
	CurrentBoardID  string
}

// Clone deep-copies the state so snapshots never alias canonical
// slices.
func (s State) Clone() State {
	c := s
	c.Users = models.CloneUsers(s.Users)
	c.Tasks = models.CloneTasks(s.Tasks)
	c.Boards = models.CloneBoards(s.Boards)
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		c.CurrentUser = &u
	}
	return c
}

// findTask returns the index of the task with the given id, or -1
func findTask(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func findUser(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func findBoard(boards []models.Board, id string) int {
	for i := range boards {
		if boards[i].ID == id {
			return i
		}
	}
	return -1
}
