package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in lifecycle order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task timestamps are written by the service, not by GORM, so that
// UpdatedAt never precedes CreatedAt.
type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
	CreatorID   uint64     `gorm:"not null;index" json:"creator_id"`
	AssigneeID  uint64     `gorm:"not null;index" json:"assignee_id"`

	// Relations
	Creator  User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
