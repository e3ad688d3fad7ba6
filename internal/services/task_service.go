package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksDrafted       = errors.New("AI did not draft any tasks")
)

// TaskService handles task business logic. The acting user is always
// passed in explicitly by the caller.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	drafter  TaskDrafter
	now      func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		drafter:  drafter,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssigneeID  uint64
}

// UpdateTaskInput represents a full overwrite of a task's editable fields
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssigneeID  uint64
}

// StatusCounts holds per-status task counts
type StatusCounts struct {
	Pending    int64
	InProgress int64
	Completed  int64
}

// Dashboard aggregates what a user sees on their overview page
type Dashboard struct {
	AssignedToMe []models.Task
	CreatedByMe  []models.Task
	AllTasks     []models.Task
	Users        []models.User
	Counts       StatusCounts
}

// Create creates a task owned by sessionUserID
func (s *TaskService) Create(sessionUserID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.AssigneeID == 0 {
		return nil, ErrMissingAssignee
	}

	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := s.now()
	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		CreatorID:   sessionUserID,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created *models.Task
	err = s.inTransaction("create task", func(repo repository.TaskRepository) error {
		if err := ensureUserExists(repo, input.AssigneeID); err != nil {
			return err
		}
		if err := repo.Create(task); err != nil {
			return err
		}
		loaded, err := repo.FindByID(task.ID, "Creator", "Assignee")
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns a task with its creator and assignee
func (s *TaskService) Get(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storageError("find task", err)
	}

	return task, nil
}

// Update overwrites a task's title, description, status and assignee.
// Only the creator or the current assignee may edit.
func (s *TaskService) Update(sessionUserID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	var updated *models.Task
	err := s.inTransaction("update task", func(repo repository.TaskRepository) error {
		task, err := repo.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if task.CreatorID != sessionUserID && task.AssigneeID != sessionUserID {
			return ErrForbidden
		}

		if input.AssigneeID == 0 {
			return ErrMissingAssignee
		}

		title, err := validateTitle(input.Title)
		if err != nil {
			return err
		}
		if !input.Status.IsValid() {
			return ErrInvalidStatus
		}

		if err := ensureUserExists(repo, input.AssigneeID); err != nil {
			return err
		}

		task.Title = title
		task.Description = input.Description
		task.Status = input.Status
		task.AssigneeID = input.AssigneeID
		task.UpdatedAt = s.touch(task.CreatedAt)

		if err := repo.Update(task); err != nil {
			return err
		}
		loaded, err := repo.FindByID(taskID, "Creator", "Assignee")
		if err != nil {
			return err
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete permanently removes a task. Only its creator may delete it.
func (s *TaskService) Delete(sessionUserID, taskID uint64) error {
	return s.inTransaction("delete task", func(repo repository.TaskRepository) error {
		task, err := repo.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if task.CreatorID != sessionUserID {
			return ErrForbidden
		}

		return repo.Delete(taskID)
	})
}

// ListForUser returns the tasks assigned to sessionUserID. An empty filter or
// "all" returns every assigned task; otherwise the filter must be a status.
func (s *TaskService) ListForUser(sessionUserID uint64, statusFilter string) ([]models.Task, error) {
	filter := repository.TaskFilter{AssigneeID: &sessionUserID}

	if statusFilter != "" && statusFilter != constants.StatusFilterAll {
		status := models.TaskStatus(statusFilter)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return s.list("list assigned tasks", filter)
}

// ListCreatedBy returns the tasks created by userID
func (s *TaskService) ListCreatedBy(userID uint64) ([]models.Task, error) {
	return s.list("list created tasks", repository.TaskFilter{CreatorID: &userID})
}

// ListAll returns every task in the store
func (s *TaskService) ListAll() ([]models.Task, error) {
	return s.list("list tasks", repository.TaskFilter{})
}

// CountByStatus counts the tasks assigned to sessionUserID with the given status
func (s *TaskService) CountByStatus(sessionUserID uint64, status models.TaskStatus) (int64, error) {
	if !status.IsValid() {
		return 0, ErrInvalidStatus
	}

	count, err := s.taskRepo.Count(repository.TaskFilter{
		AssigneeID: &sessionUserID,
		Status:     &status,
	})
	if err != nil {
		return 0, storageError("count tasks", err)
	}
	return count, nil
}

// Dashboard builds the overview for sessionUserID
func (s *TaskService) Dashboard(sessionUserID uint64) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.AssignedToMe, err = s.ListForUser(sessionUserID, constants.StatusFilterAll); err != nil {
		return nil, err
	}
	if d.CreatedByMe, err = s.ListCreatedBy(sessionUserID); err != nil {
		return nil, err
	}
	if d.AllTasks, err = s.ListAll(); err != nil {
		return nil, err
	}
	if d.Users, err = s.userRepo.List(); err != nil {
		return nil, storageError("list users", err)
	}

	counts := map[models.TaskStatus]*int64{
		models.TaskStatusPending:    &d.Counts.Pending,
		models.TaskStatusInProgress: &d.Counts.InProgress,
		models.TaskStatusCompleted:  &d.Counts.Completed,
	}
	for status, dst := range counts {
		if *dst, err = s.CountByStatus(sessionUserID, status); err != nil {
			return nil, err
		}
	}

	return &d, nil
}

// DraftTasks asks the AI drafter for task suggestions. Nothing is persisted.
func (s *TaskService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.drafter.DraftTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to draft tasks: %w", err)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	for _, draft := range drafts {
		title, err := validateTitle(draft.Title)
		if err != nil {
			continue
		}
		draft.Title = title
		valid = append(valid, draft)
		if len(valid) == constants.MaxAIDraftedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksDrafted
	}

	return valid, nil
}

func (s *TaskService) list(op string, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, storageError(op, err)
	}
	return tasks, nil
}

// touch returns the new updated_at, never earlier than createdAt.
func (s *TaskService) touch(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// inTransaction runs fn atomically. Errors that are not already one of the
// service errors are reported as storage failures.
func (s *TaskService) inTransaction(op string, fn func(repo repository.TaskRepository) error) error {
	err := s.taskRepo.Transaction(fn)
	if err == nil || isTaskError(err) {
		return err
	}
	return storageError(op, err)
}

func isTaskError(err error) bool {
	for _, target := range []error{
		ErrTaskNotFound,
		ErrForbidden,
		ErrMissingAssignee,
		ErrAssigneeNotFound,
		ErrTitleRequired,
		ErrTitleTooLong,
		ErrInvalidStatus,
		ErrStorageFailure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func ensureUserExists(repo repository.TaskRepository, userID uint64) error {
	exists, err := repo.UserExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
