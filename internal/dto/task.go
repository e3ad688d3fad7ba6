package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatorID   uint64            `json:"creator_id"`
	AssigneeID  uint64            `json:"assignee_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	Assignee    *UserDTO          `json:"assignee,omitempty"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks  []TaskDTO `json:"tasks"`
	Filter string    `json:"filter,omitempty"`
	Total  int       `json:"total"`
}

// StatusCountsDTO holds per-status counts for the current user
type StatusCountsDTO struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// DashboardDTO is the overview returned to the logged-in user
type DashboardDTO struct {
	AssignedToMe []TaskDTO       `json:"assigned_to_me"`
	CreatedByMe  []TaskDTO       `json:"created_by_me"`
	AllTasks     []TaskDTO       `json:"all_tasks"`
	Users        []UserDTO       `json:"users"`
	Counts       StatusCountsDTO `json:"counts"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO without the email
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToSelfDTO converts the authenticated user, including the email
func ToSelfDTO(user models.User) UserDTO {
	dto := ToUserDTO(user)
	dto.Email = user.Email
	return dto
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include assignee if preloaded
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, filter string) TaskListResponse {
	return TaskListResponse{
		Tasks:  ToTaskDTOs(tasks),
		Filter: filter,
		Total:  len(tasks),
	}
}

// ToDashboardDTO converts the service dashboard
func ToDashboardDTO(d services.Dashboard) DashboardDTO {
	return DashboardDTO{
		AssignedToMe: ToTaskDTOs(d.AssignedToMe),
		CreatedByMe:  ToTaskDTOs(d.CreatedByMe),
		AllTasks:     ToTaskDTOs(d.AllTasks),
		Users:        ToUserDTOs(d.Users),
		Counts: StatusCountsDTO{
			Pending:    d.Counts.Pending,
			InProgress: d.Counts.InProgress,
			Completed:  d.Counts.Completed,
		},
	}
}
