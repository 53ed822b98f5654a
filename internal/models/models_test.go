package models

import (
	"testing"
	"time"
)

func testUsers() []User {
	now := time.Now()
	return []User{
		{ID: "u1", Email: "ann@x.com", Name: "Ann", Role: RoleAdmin, CreatedAt: now},
		{ID: "u2", Email: "bob@x.com", Name: "Bob", Role: RoleUser, CreatedAt: now},
	}
}

func TestIsEmailUnique(t *testing.T) {
	users := testUsers()

	tests := []struct {
		name      string
		email     string
		excludeID string
		want      bool
	}{
		{name: "unused email", email: "carol@x.com", want: true},
		{name: "exact collision", email: "ann@x.com", want: false},
		{name: "case-insensitive collision", email: "ANN@X.COM", want: false},
		{name: "own email excluded", email: "ann@x.com", excludeID: "u1", want: true},
		{name: "other user's email with exclusion", email: "bob@x.com", excludeID: "u1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmailUnique(users, tt.email, tt.excludeID); got != tt.want {
				t.Errorf("IsEmailUnique(%q, %q) = %v, want %v", tt.email, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestIsNameUnique(t *testing.T) {
	users := testUsers()

	tests := []struct {
		name      string
		userName  string
		excludeID string
		want      bool
	}{
		{name: "unused name", userName: "Carol", want: true},
		{name: "exact collision", userName: "Ann", want: false},
		{name: "case-insensitive collision", userName: "ann", want: false},
		{name: "own name excluded", userName: "Bob", excludeID: "u2", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNameUnique(users, tt.userName, tt.excludeID); got != tt.want {
				t.Errorf("IsNameUnique(%q, %q) = %v, want %v", tt.userName, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	deadline := time.Now().Add(24 * time.Hour)
	orig := Task{
		ID:          "t1",
		Title:       "original",
		Deadline:    &deadline,
		Attachments: []string{"a.txt"},
		Comments:    []Comment{{ID: "c1", Content: "hi"}},
	}

	clone := orig.Clone()
	clone.Attachments[0] = "changed.txt"
	clone.Comments[0].Content = "changed"
	*clone.Deadline = clone.Deadline.Add(time.Hour)

	if orig.Attachments[0] != "a.txt" {
		t.Errorf("clone shares attachments slice with original")
	}
	if orig.Comments[0].Content != "hi" {
		t.Errorf("clone shares comments slice with original")
	}
	if !orig.Deadline.Equal(deadline) {
		t.Errorf("clone shares deadline pointer with original")
	}
}
