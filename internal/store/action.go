package store

import (
	"time"

	"taskboard/internal/models"
)

// Action is one intended state change. The set of variants is closed;
// the reducer's type switch is the single place that interprets them.
type Action interface {
	isAction()
}

// Login sets the session user and marks the session authenticated
type Login struct {
	User models.User
}

// Logout clears the session user
type Logout struct{}

// SetUsers replaces the user collection wholesale (hydration only)
type SetUsers struct {
	Users []models.User
}

// SetTasks replaces the task collection wholesale (hydration only)
type SetTasks struct {
	Tasks []models.Task
}

// SetBoards replaces the board collection wholesale (hydration only)
type SetBoards struct {
	Boards []models.Board
}

// SetCurrentBoard switches the session's active board
type SetCurrentBoard struct {
	BoardID string
}

// AddTask appends a fully-formed task to the collection
type AddTask struct {
	Task models.Task
}

// UpdateTask merges the patch into the task with the given id and
// refreshes its updatedAt. ID and createdAt are not part of the patch
// and can never be overwritten.
type UpdateTask struct {
	ID    string
	Patch TaskPatch
}

// DeleteTask removes the task with the given id; no-op if absent
type DeleteTask struct {
	ID string
}

// AddUser appends a fully-formed user to the collection
type AddUser struct {
	User models.User
}

// UpdateUser merges the patch into the user with the given id
type UpdateUser struct {
	ID    string
	Patch UserPatch
}

// DeleteUser removes the user with the given id; no-op if absent
type DeleteUser struct {
	ID string
}

// AddBoard appends a fully-formed board to the collection
type AddBoard struct {
	Board models.Board
}

// UpdateBoard merges the patch into the board with the given id and
// refreshes its updatedAt
type UpdateBoard struct {
	ID    string
	Patch BoardPatch
}

// DeleteBoard removes the board with the given id; no-op if absent
type DeleteBoard struct {
	ID string
}

func (Login) isAction()           {}
func (Logout) isAction()          {}
func (SetUsers) isAction()        {}
func (SetTasks) isAction()        {}
func (SetBoards) isAction()       {}
func (SetCurrentBoard) isAction() {}
func (AddTask) isAction()         {}
func (UpdateTask) isAction()      {}
func (DeleteTask) isAction()      {}
func (AddUser) isAction()         {}
func (UpdateUser) isAction()      {}
func (DeleteUser) isAction()      {}
func (AddBoard) isAction()        {}
func (UpdateBoard) isAction()     {}
func (DeleteBoard) isAction()     {}

// TaskPatch is a partial task update. Nil fields are left untouched.
// Clearing the deadline is distinct from not changing it, hence the
// separate flag.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *models.Status
	Priority      *models.Priority
	AssigneeID    *string
	BoardID       *string
	Deadline      *time.Time
	ClearDeadline bool
	IsPinned      *bool
	Attachments   []string
	AddComment    *models.Comment
}

// UserPatch is a partial user update. Users carry no updatedAt.
type UserPatch struct {
	Email *string
	Name  *string
	Role  *models.Role
}

// BoardPatch is a partial board update
type BoardPatch struct {
	Name        *string
	Description *string
}
