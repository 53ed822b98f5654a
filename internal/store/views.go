package store

import (
	"math"
	"time"

	"taskboard/internal/models"
)

// Derived views: pure projections of canonical state plus a reference
// time. Nothing here mutates or caches; every call recomputes from
// the state it is given.

// dueSoonWindow is how far ahead a deadline counts as "due soon"
const dueSoonWindow = 2 * 24 * time.Hour

// recentWindow is how far back a task counts as recently created
const recentWindow = 7 * 24 * time.Hour

// BoardTasks returns the tasks whose boardId matches the given board,
// in their original relative order.
func BoardTasks(s State, boardID string) []models.Task {
	var out []models.Task
	for _, t := range s.Tasks {
		if t.BoardID == boardID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// StatusCounts groups tasks by workflow state
type StatusCounts struct {
	Created    int
	InProgress int
	Completed  int
}

// CountByStatus tallies tasks per workflow state
func CountByStatus(tasks []models.Task) StatusCounts {
	var c StatusCounts
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCreated:
			c.Created++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusCompleted:
			c.Completed++
		}
	}
	return c
}

// PriorityCounts groups tasks by priority
type PriorityCounts struct {
	Low    int
	Medium int
	High   int
}

// CountByPriority tallies tasks per priority
func CountByPriority(tasks []models.Task) PriorityCounts {
	var c PriorityCounts
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityLow:
			c.Low++
		case models.PriorityMedium:
			c.Medium++
		case models.PriorityHigh:
			c.High++
		}
	}
	return c
}

// CompletionRate returns the percentage of completed tasks, rounded
// to the nearest integer. Zero tasks is 0, not a division error.
func CompletionRate(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// IsOverdue reports whether the task has a deadline in the past and
// is not completed
func IsOverdue(t models.Task, now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && t.Status != models.StatusCompleted
}

// IsDueSoon reports whether the task's deadline lies within the next
// two days
func IsDueSoon(t models.Task, now time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	return t.Deadline.After(now) && t.Deadline.Before(now.Add(dueSoonWindow))
}

// IsRecent reports whether the task was created within the last week
func IsRecent(t models.Task, now time.Time) bool {
	return t.CreatedAt.After(now.Add(-recentWindow))
}

// OverdueCount counts overdue tasks
func OverdueCount(tasks []models.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if IsOverdue(t, now) {
			n++
		}
	}
	return n
}

// RecentCount counts tasks created within the last week
func RecentCount(tasks []models.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if IsRecent(t, now) {
			n++
		}
	}
	return n
}

// UserTaskStats is one user's task distribution
type UserTaskStats struct {
	UserID     string
	Name       string
	Total      int
	Completed  int
	InProgress int
	Created    int
	// Efficiency is the user's own completion percentage, 0 when the
	// user has no tasks
	Efficiency int
}

// TaskStatsByUser computes per-user task counts grouped by status,
// keyed by assignee. Users with no tasks are included with zeros.
func TaskStatsByUser(s State) []UserTaskStats {
	stats := make([]UserTaskStats, 0, len(s.Users))
	for _, u := range s.Users {
		st := UserTaskStats{UserID: u.ID, Name: u.Name}
		var userTasks []models.Task
		for _, t := range s.Tasks {
			if t.AssigneeID == u.ID {
				userTasks = append(userTasks, t)
			}
		}
		c := CountByStatus(userTasks)
		st.Total = len(userTasks)
		st.Completed = c.Completed
		st.InProgress = c.InProgress
		st.Created = c.Created
		st.Efficiency = CompletionRate(userTasks)
		stats = append(stats, st)
	}
	return stats
}
