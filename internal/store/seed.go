package store

import (
	"time"

	"taskboard/internal/models"
)

// Demo content seeded on first run so the application is usable
// without any setup: one admin, one regular user, one board and two
// tasks on it.

func (s *Store) seedUsers() []models.User {
	now := s.now()
	return []models.User{
		{
			ID:        s.newID(),
			Email:     "admin@kanban.com",
			Name:      "Administrator",
			Role:      models.RoleAdmin,
			CreatedAt: now,
		},
		{
			ID:        s.newID(),
			Email:     "user@kanban.com",
			Name:      "Demo User",
			Role:      models.RoleUser,
			CreatedAt: now,
		},
	}
}

func (s *Store) seedBoards(users []models.User) []models.Board {
	now := s.now()
	createdBy := ""
	if len(users) > 0 {
		createdBy = users[0].ID
	}
	return []models.Board{
		{
			ID:          s.newID(),
			Name:        "Main Board",
			Description: "Primary board for managing tasks",
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func (s *Store) seedTasks(users []models.User, boardID string) []models.Task {
	now := s.now()
	deadline := now.Add(7 * 24 * time.Hour)

	var adminID, userID string
	if len(users) > 0 {
		adminID = users[0].ID
		userID = users[0].ID
	}
	if len(users) > 1 {
		userID = users[1].ID
	}

	return []models.Task{
		{
			ID:          s.newID(),
			Title:       "Design the user interface",
			Description: "Create mockups and prototypes for the new feature",
			Status:      models.StatusInProgress,
			Priority:    models.PriorityHigh,
			AssigneeID:  userID,
			CreatorID:   adminID,
			BoardID:     boardID,
			Deadline:    &deadline,
			IsPinned:    true,
			Attachments: []string{},
			Comments:    []models.Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          s.newID(),
			Title:       "Implement authentication",
			Description: "Set up user sign-in and registration",
			Status:      models.StatusCreated,
			Priority:    models.PriorityHigh,
			AssigneeID:  adminID,
			CreatorID:   adminID,
			BoardID:     boardID,
			IsPinned:    false,
			Attachments: []string{},
			Comments:    []models.Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
