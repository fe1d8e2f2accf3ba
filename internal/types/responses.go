package types

import (
	"time"

	"github.com/tasktrack/tasktrack/internal/models"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type TaskResponse struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Done      bool       `json:"done"`
	Priority  int        `json:"priority"`
	Category  string     `json:"category"`
	DueDate   *time.Time `json:"due_date"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func NewTaskResponse(t *models.Task) TaskResponse {
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}

	return TaskResponse{
		ID:        t.ID,
		UserID:    t.OwnerID,
		Title:     t.Title,
		Done:      t.Done,
		Priority:  t.Priority,
		Category:  t.Category,
		DueDate:   t.DueDate,
		Tags:      tags,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func NewTaskResponses(tasks []models.Task) []TaskResponse {
	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, NewTaskResponse(&tasks[i]))
	}
	return response
}
