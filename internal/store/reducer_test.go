package store

import (
	"testing"
	"time"

	"taskboard/internal/models"
)

var (
	t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func baseState() State {
	return State{
		Users: []models.User{
			{ID: "u1", Email: "ann@x.com", Name: "Ann", Role: models.RoleAdmin, CreatedAt: t0},
		},
		Tasks: []models.Task{
			{ID: "task1", Title: "first", Status: models.StatusCreated, Priority: models.PriorityLow, BoardID: "b1", CreatedAt: t0, UpdatedAt: t0},
			{ID: "task2", Title: "second", Status: models.StatusCompleted, Priority: models.PriorityHigh, BoardID: "b2", CreatedAt: t0, UpdatedAt: t0},
		},
		Boards: []models.Board{
			{ID: "b1", Name: "main", CreatedAt: t0, UpdatedAt: t0},
		},
	}
}

func TestReduceLoginLogout(t *testing.T) {
	s := baseState()

	s = reduce(s, Login{User: s.Users[0]}, t1)
	if s.CurrentUser == nil || s.CurrentUser.ID != "u1" {
		t.Fatalf("login did not set current user")
	}
	if !s.IsAuthenticated {
		t.Errorf("login did not set isAuthenticated")
	}

	s = reduce(s, Logout{}, t1)
	if s.CurrentUser != nil {
		t.Errorf("logout did not clear current user")
	}
	if s.IsAuthenticated {
		t.Errorf("logout did not clear isAuthenticated")
	}
}

func TestReduceUpdateTaskPreservesIdentity(t *testing.T) {
	s := baseState()
	title := "renamed"
	status := models.StatusInProgress

	s2 := reduce(s, UpdateTask{ID: "task1", Patch: TaskPatch{Title: &title, Status: &status}}, t1)

	got := s2.Tasks[0]
	if got.ID != "task1" {
		t.Errorf("update changed id: %q", got.ID)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Errorf("update changed createdAt: %v", got.CreatedAt)
	}
	if got.Title != "renamed" || got.Status != models.StatusInProgress {
		t.Errorf("patch fields not applied: %+v", got)
	}
	if !got.UpdatedAt.After(t0) {
		t.Errorf("updatedAt not refreshed: %v", got.UpdatedAt)
	}
	// untouched fields survive
	if got.Priority != models.PriorityLow || got.BoardID != "b1" {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	// original state not mutated
	if s.Tasks[0].Title != "first" {
		t.Errorf("reduce mutated its input state")
	}
}

func TestReduceUpdateTaskDeadline(t *testing.T) {
	s := baseState()
	deadline := t0.Add(48 * time.Hour)

	s = reduce(s, UpdateTask{ID: "task1", Patch: TaskPatch{Deadline: &deadline}}, t1)
	if s.Tasks[0].Deadline == nil || !s.Tasks[0].Deadline.Equal(deadline) {
		t.Fatalf("deadline not set")
	}

	s = reduce(s, UpdateTask{ID: "task1", Patch: TaskPatch{ClearDeadline: true}}, t1)
	if s.Tasks[0].Deadline != nil {
		t.Errorf("deadline not cleared")
	}
}

func TestReduceDeleteTaskIdempotent(t *testing.T) {
	s := baseState()

	once := reduce(s, DeleteTask{ID: "task1"}, t1)
	twice := reduce(once, DeleteTask{ID: "task1"}, t1)

	if len(once.Tasks) != 1 || once.Tasks[0].ID != "task2" {
		t.Fatalf("delete did not remove task: %+v", once.Tasks)
	}
	if len(twice.Tasks) != len(once.Tasks) {
		t.Errorf("second delete changed the collection")
	}

	absent := reduce(s, DeleteTask{ID: "nope"}, t1)
	if len(absent.Tasks) != 2 {
		t.Errorf("deleting an absent id changed the collection")
	}
}

func TestReduceDeleteAbsentIsNoOp(t *testing.T) {
	s := baseState()

	for _, action := range []Action{
		DeleteUser{ID: "nope"},
		DeleteBoard{ID: "nope"},
		UpdateTask{ID: "nope", Patch: TaskPatch{}},
		UpdateUser{ID: "nope", Patch: UserPatch{}},
		UpdateBoard{ID: "nope", Patch: BoardPatch{}},
	} {
		s2 := reduce(s, action, t1)
		if len(s2.Users) != 1 || len(s2.Tasks) != 2 || len(s2.Boards) != 1 {
			t.Errorf("%T on absent id changed a collection", action)
		}
	}
}

func TestReduceUpdateBoardRefreshesUpdatedAt(t *testing.T) {
	s := baseState()
	name := "renamed"

	s = reduce(s, UpdateBoard{ID: "b1", Patch: BoardPatch{Name: &name}}, t1)
	b := s.Boards[0]
	if b.Name != "renamed" {
		t.Errorf("patch not applied")
	}
	if !b.UpdatedAt.Equal(t1) {
		t.Errorf("updatedAt = %v, want %v", b.UpdatedAt, t1)
	}
	if !b.CreatedAt.Equal(t0) {
		t.Errorf("createdAt changed")
	}
}

func TestReduceUpdateUserHasNoTimestamps(t *testing.T) {
	s := baseState()
	name := "Anna"

	s = reduce(s, UpdateUser{ID: "u1", Patch: UserPatch{Name: &name}}, t1)
	u := s.Users[0]
	if u.Name != "Anna" {
		t.Errorf("patch not applied")
	}
	if !u.CreatedAt.Equal(t0) {
		t.Errorf("createdAt changed")
	}
}

func TestReduceAppendComment(t *testing.T) {
	s := baseState()
	c := models.Comment{ID: "c1", UserID: "u1", Content: "looks good", CreatedAt: t1}

	s = reduce(s, UpdateTask{ID: "task1", Patch: TaskPatch{AddComment: &c}}, t1)
	s = reduce(s, UpdateTask{ID: "task1", Patch: TaskPatch{AddComment: &models.Comment{ID: "c2", Content: "second"}}}, t1)

	got := s.Tasks[0].Comments
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("comments not appended in order: %+v", got)
	}
}

func TestReduceSetCollections(t *testing.T) {
	var s State

	users := []models.User{{ID: "x"}}
	tasks := []models.Task{{ID: "y"}}
	boards := []models.Board{{ID: "z"}}

	s = reduce(s, SetUsers{Users: users}, t1)
	s = reduce(s, SetTasks{Tasks: tasks}, t1)
	s = reduce(s, SetBoards{Boards: boards}, t1)
	s = reduce(s, SetCurrentBoard{BoardID: "z"}, t1)

	if len(s.Users) != 1 || len(s.Tasks) != 1 || len(s.Boards) != 1 {
		t.Fatalf("wholesale replace failed: %+v", s)
	}
	if s.CurrentBoardID != "z" {
		t.Errorf("current board not set")
	}
}
