package repository

import (
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter in insertion order
	List(filter TaskFilter) ([]models.Task, error)

	// Count counts tasks matching the filter
	Count(filter TaskFilter) (int64, error)

	// Update writes the mutable columns of a task; creator_id is never written
	Update(task *models.Task) error

	// Delete permanently removes a task
	Delete(id uint64) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository

	// Transaction runs fn against a transaction-bound repository
	Transaction(fn func(repo TaskRepository) error) error

	// UserExists reports whether the given user ID references an existing user
	UserExists(userID uint64) (bool, error)
}

// TaskFilter holds filtering options for listing tasks.
// Nil fields do not narrow the result.
type TaskFilter struct {
	Status     *models.TaskStatus
	CreatorID  *uint64
	AssigneeID *uint64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsernameOrEmail reports whether either identity is taken
	ExistsByUsernameOrEmail(username, email string) (bool, error)

	// List returns every user ordered by ID
	List() ([]models.User, error)
}
