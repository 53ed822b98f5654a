package store

import (
	"time"

	"taskboard/internal/models"
)

// reduce computes the next state from the current state and one
// action. It is pure and total: it validates nothing, never fails,
// and deletes of absent ids are no-ops. now is the timestamp stamped
// into updatedAt where an action refreshes it.
func reduce(state State, action Action, now time.Time) State {
	switch a := action.(type) {
	case Login:
		u := a.User
		state.CurrentUser = &u
		state.IsAuthenticated = true
		return state

	case Logout:
		state.CurrentUser = nil
		state.IsAuthenticated = false
		return state

	case SetUsers:
		state.Users = a.Users
		return state

	case SetTasks:
		state.Tasks = a.Tasks
		return state

	case SetBoards:
		state.Boards = a.Boards
		return state

	case SetCurrentBoard:
		state.CurrentBoardID = a.BoardID
		return state

	case AddTask:
		state.Tasks = append(models.CloneTasks(state.Tasks), a.Task)
		return state

	case UpdateTask:
		i := findTask(state.Tasks, a.ID)
		if i < 0 {
			return state
		}
		tasks := models.CloneTasks(state.Tasks)
		tasks[i] = applyTaskPatch(tasks[i], a.Patch, now)
		state.Tasks = tasks
		return state

	case DeleteTask:
		i := findTask(state.Tasks, a.ID)
		if i < 0 {
			return state
		}
		tasks := models.CloneTasks(state.Tasks)
		state.Tasks = append(tasks[:i], tasks[i+1:]...)
		return state

	case AddUser:
		state.Users = append(models.CloneUsers(state.Users), a.User)
		return state

	case UpdateUser:
		i := findUser(state.Users, a.ID)
		if i < 0 {
			return state
		}
		users := models.CloneUsers(state.Users)
		users[i] = applyUserPatch(users[i], a.Patch)
		state.Users = users
		return state

	case DeleteUser:
		i := findUser(state.Users, a.ID)
		if i < 0 {
			return state
		}
		users := models.CloneUsers(state.Users)
		state.Users = append(users[:i], users[i+1:]...)
		return state

	case AddBoard:
		state.Boards = append(models.CloneBoards(state.Boards), a.Board)
		return state

	case UpdateBoard:
		i := findBoard(state.Boards, a.ID)
		if i < 0 {
			return state
		}
		boards := models.CloneBoards(state.Boards)
		boards[i] = applyBoardPatch(boards[i], a.Patch, now)
		state.Boards = boards
		return state

	case DeleteBoard:
		i := findBoard(state.Boards, a.ID)
		if i < 0 {
			return state
		}
		boards := models.CloneBoards(state.Boards)
		state.Boards = append(boards[:i], boards[i+1:]...)
		return state
	}

	return state
}

// applyTaskPatch merges the patch into a copy of the task. ID and
// createdAt are untouched by construction; updatedAt always moves to
// now.
func applyTaskPatch(t models.Task, p TaskPatch, now time.Time) models.Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.BoardID != nil {
		t.BoardID = *p.BoardID
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.IsPinned != nil {
		t.IsPinned = *p.IsPinned
	}
	if p.Attachments != nil {
		t.Attachments = append([]string(nil), p.Attachments...)
	}
	if p.AddComment != nil {
		t.Comments = append(t.Comments, *p.AddComment)
	}
	t.UpdatedAt = now
	return t
}

func applyUserPatch(u models.User, p UserPatch) models.User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

func applyBoardPatch(b models.Board, p BoardPatch, now time.Time) models.Board {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	b.UpdatedAt = now
	return b
}
