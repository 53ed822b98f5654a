package models

import (
	"strings"
	"time"
)

// Role is a user's permission level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Status is a task's workflow state. The workflow is ordered but any
// status may change to any other; transitions are not restricted here.
type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Priority is a task's urgency level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// User represents an account identity. Email and name are unique
// across all users under case-insensitive comparison.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Board is a named collection of tasks
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is an append-only note on a task. Comments are never edited
// or deleted individually; they go away with the parent task.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task represents a single task on a board
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	AssigneeID  string     `json:"assigneeId"` // empty means unassigned
	CreatorID   string     `json:"creatorId"`
	BoardID     string     `json:"boardId"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsPinned    bool       `json:"isPinned"`
	Attachments []string   `json:"attachments"`
	Comments    []Comment  `json:"comments"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsEmailUnique reports whether no user other than excludeID already
// uses the given email, compared case-insensitively.
func IsEmailUnique(users []User, email, excludeID string) bool {
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return false
		}
	}
	return true
}

// IsNameUnique reports whether no user other than excludeID already
// uses the given name, compared case-insensitively.
func IsNameUnique(users []User, name, excludeID string) bool {
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		if strings.EqualFold(u.Name, name) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the task, including its comment and
// attachment slices, so callers can hand out snapshots safely.
func (t Task) Clone() Task {
	c := t
	if t.Attachments != nil {
		c.Attachments = make([]string, len(t.Attachments))
		copy(c.Attachments, t.Attachments)
	}
	if t.Comments != nil {
		c.Comments = make([]Comment, len(t.Comments))
		copy(c.Comments, t.Comments)
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return c
}

// CloneTasks deep-copies a task slice
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// CloneUsers copies a user slice
func CloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	copy(out, users)
	return out
}

// CloneBoards copies a board slice
func CloneBoards(boards []Board) []Board {
	if boards == nil {
		return nil
	}
	out := make([]Board, len(boards))
	copy(out, boards)
	return out
}
