package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	auth    *AuthService
	service *TaskService
	start   time.Time

	alice *models.User
	bob   *models.User
	carol *models.User
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())

	userRepo := repository.NewUserRepository(s.db)
	s.auth = NewAuthService(userRepo, testHasher())
	s.service = NewTaskService(repository.NewTaskRepository(s.db), userRepo, nil)
	s.start = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.service.now = stepClock(s.start)

	s.alice = s.register("alice")
	s.bob = s.register("bob")
	s.carol = s.register("carol")
}

func (s *TaskServiceTestSuite) register(name string) *models.User {
	user, err := s.auth.Register(RegisterInput{
		Username:        name,
		Email:           name + "@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	s.Require().NoError(err)
	return user
}

func (s *TaskServiceTestSuite) createTask(creator *models.User, title string, status models.TaskStatus, assignee *models.User) *models.Task {
	task, err := s.service.Create(creator.ID, CreateTaskInput{
		Title:       title,
		Description: "details",
		Status:      status,
		AssigneeID:  assignee.ID,
	})
	s.Require().NoError(err)
	return task
}

func (s *TaskServiceTestSuite) TestCreate_SetsCreatorAndTimestamps() {
	task := s.createTask(s.alice, "Write report", "", s.bob)

	s.NotZero(task.ID)
	s.Equal(s.alice.ID, task.CreatorID)
	s.Equal(s.bob.ID, task.AssigneeID)
	s.Equal(models.TaskStatusPending, task.Status)
	s.True(task.CreatedAt.Equal(s.start))
	s.True(task.UpdatedAt.Equal(task.CreatedAt))
	s.Equal("alice", task.Creator.Username)
	s.Equal("bob", task.Assignee.Username)
}

func (s *TaskServiceTestSuite) TestCreate_MissingAssignee() {
	_, err := s.service.Create(s.alice.ID, CreateTaskInput{Title: "Orphan"})

	s.ErrorIs(err, ErrMissingAssignee)
	s.EqualValues(0, countTasks(s.T(), s.db))
}

func (s *TaskServiceTestSuite) TestCreate_UnknownAssignee() {
	_, err := s.service.Create(s.alice.ID, CreateTaskInput{Title: "Ghost", AssigneeID: 4242})

	s.ErrorIs(err, ErrAssigneeNotFound)
	s.EqualValues(0, countTasks(s.T(), s.db))
}

func (s *TaskServiceTestSuite) TestCreate_Validation() {
	_, err := s.service.Create(s.alice.ID, CreateTaskInput{Title: "   ", AssigneeID: s.bob.ID})
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.service.Create(s.alice.ID, CreateTaskInput{Title: strings.Repeat("x", 101), AssigneeID: s.bob.ID})
	s.ErrorIs(err, ErrTitleTooLong)

	_, err = s.service.Create(s.alice.ID, CreateTaskInput{Title: "Task", Status: "pendente", AssigneeID: s.bob.ID})
	s.ErrorIs(err, ErrInvalidStatus)

	s.EqualValues(0, countTasks(s.T(), s.db))
}

func (s *TaskServiceTestSuite) TestGet_NotFound() {
	_, err := s.service.Get(999)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestUpdate_ByAssignee() {
	task := s.createTask(s.alice, "Review", models.TaskStatusPending, s.bob)

	updated, err := s.service.Update(s.bob.ID, task.ID, UpdateTaskInput{
		Title:       "Review PR",
		Description: "look at the diff",
		Status:      models.TaskStatusCompleted,
		AssigneeID:  s.bob.ID,
	})
	s.Require().NoError(err)

	s.Equal("Review PR", updated.Title)
	s.Equal("look at the diff", updated.Description)
	s.Equal(models.TaskStatusCompleted, updated.Status)
	s.Equal(s.alice.ID, updated.CreatorID)
	s.True(updated.UpdatedAt.After(task.UpdatedAt))
	s.True(updated.CreatedAt.Equal(task.CreatedAt))
}

func (s *TaskServiceTestSuite) TestUpdate_CreatorReassigns() {
	task := s.createTask(s.alice, "Deploy", models.TaskStatusInProgress, s.bob)

	updated, err := s.service.Update(s.alice.ID, task.ID, UpdateTaskInput{
		Title:      "Deploy",
		Status:     models.TaskStatusInProgress,
		AssigneeID: s.carol.ID,
	})
	s.Require().NoError(err)
	s.Equal(s.carol.ID, updated.AssigneeID)
	s.Equal("carol", updated.Assignee.Username)

	// bob is no longer creator or assignee
	_, err = s.service.Update(s.bob.ID, task.ID, UpdateTaskInput{
		Title:      "Deploy",
		Status:     models.TaskStatusCompleted,
		AssigneeID: s.bob.ID,
	})
	s.ErrorIs(err, ErrForbidden)
}

func (s *TaskServiceTestSuite) TestUpdate_ForbiddenLeavesTaskUnchanged() {
	task := s.createTask(s.alice, "Secret", models.TaskStatusPending, s.bob)

	_, err := s.service.Update(s.carol.ID, task.ID, UpdateTaskInput{
		Title:      "Hijacked",
		Status:     models.TaskStatusCompleted,
		AssigneeID: s.carol.ID,
	})
	s.ErrorIs(err, ErrForbidden)

	reloaded, err := s.service.Get(task.ID)
	s.Require().NoError(err)
	s.Equal("Secret", reloaded.Title)
	s.Equal(models.TaskStatusPending, reloaded.Status)
	s.Equal(s.bob.ID, reloaded.AssigneeID)
	s.True(reloaded.UpdatedAt.Equal(task.UpdatedAt))
}

func (s *TaskServiceTestSuite) TestUpdate_ErrorOrder() {
	_, err := s.service.Update(s.alice.ID, 999, UpdateTaskInput{})
	s.ErrorIs(err, ErrTaskNotFound)

	task := s.createTask(s.alice, "Order", models.TaskStatusPending, s.bob)

	// Forbidden wins over a missing assignee
	_, err = s.service.Update(s.carol.ID, task.ID, UpdateTaskInput{Title: "Order", Status: models.TaskStatusPending})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.Update(s.alice.ID, task.ID, UpdateTaskInput{Title: "Order", Status: models.TaskStatusPending})
	s.ErrorIs(err, ErrMissingAssignee)

	_, err = s.service.Update(s.alice.ID, task.ID, UpdateTaskInput{Title: "Order", Status: "done", AssigneeID: s.bob.ID})
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.service.Update(s.alice.ID, task.ID, UpdateTaskInput{Title: "Order", Status: models.TaskStatusPending, AssigneeID: 4242})
	s.ErrorIs(err, ErrAssigneeNotFound)

	reloaded, err := s.service.Get(task.ID)
	s.Require().NoError(err)
	s.Equal(s.bob.ID, reloaded.AssigneeID)
}

func (s *TaskServiceTestSuite) TestUpdate_ClockBehindCreatedAt() {
	task := s.createTask(s.alice, "Clock skew", models.TaskStatusPending, s.bob)
	s.service.now = func() time.Time { return s.start.Add(-time.Hour) }

	updated, err := s.service.Update(s.alice.ID, task.ID, UpdateTaskInput{
		Title:      "Clock skew",
		Status:     models.TaskStatusInProgress,
		AssigneeID: s.bob.ID,
	})
	s.Require().NoError(err)
	s.False(updated.UpdatedAt.Before(updated.CreatedAt))
}

func (s *TaskServiceTestSuite) TestDelete_AssigneeForbidden() {
	task := s.createTask(s.alice, "Keep me", models.TaskStatusPending, s.bob)

	err := s.service.Delete(s.bob.ID, task.ID)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.service.Get(task.ID)
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestDelete_ByCreator() {
	task := s.createTask(s.alice, "Remove me", models.TaskStatusPending, s.bob)

	s.Require().NoError(s.service.Delete(s.alice.ID, task.ID))

	_, err := s.service.Get(task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	s.ErrorIs(s.service.Delete(s.alice.ID, task.ID), ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestScenario_AssignEditDelete() {
	x := s.createTask(s.alice, "X", models.TaskStatusPending, s.bob)

	user, err := s.auth.Authenticate(LoginInput{Username: "bob", Password: "secret"})
	s.Require().NoError(err)

	_, err = s.service.Update(user.ID, x.ID, UpdateTaskInput{
		Title:       x.Title,
		Description: x.Description,
		Status:      models.TaskStatusCompleted,
		AssigneeID:  x.AssigneeID,
	})
	s.Require().NoError(err)

	got, err := s.service.Get(x.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, got.Status)
	s.False(got.UpdatedAt.Equal(x.UpdatedAt))

	s.Require().NoError(s.service.Delete(s.alice.ID, x.ID))
	_, err = s.service.Get(x.ID)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestListForUser_StatusFilter() {
	pending := s.createTask(s.alice, "B pending", models.TaskStatusPending, s.bob)
	s.createTask(s.alice, "B done", models.TaskStatusCompleted, s.bob)
	s.createTask(s.carol, "B in progress", models.TaskStatusInProgress, s.bob)
	s.createTask(s.alice, "Carol pending", models.TaskStatusPending, s.carol)

	tasks, err := s.service.ListForUser(s.bob.ID, "pending")
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(pending.ID, tasks[0].ID)

	for _, filter := range []string{"all", ""} {
		tasks, err = s.service.ListForUser(s.bob.ID, filter)
		s.Require().NoError(err)
		s.Len(tasks, 3)
		for i, task := range tasks {
			s.Equal(s.bob.ID, task.AssigneeID)
			if i > 0 {
				s.Greater(task.ID, tasks[i-1].ID)
			}
		}
	}

	_, err = s.service.ListForUser(s.bob.ID, "archived")
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *TaskServiceTestSuite) TestListAllAndCreatedBy() {
	s.createTask(s.alice, "one", models.TaskStatusPending, s.bob)
	s.createTask(s.alice, "two", models.TaskStatusPending, s.carol)
	s.createTask(s.bob, "three", models.TaskStatusPending, s.alice)

	all, err := s.service.ListAll()
	s.Require().NoError(err)
	s.Len(all, 3)

	created, err := s.service.ListCreatedBy(s.alice.ID)
	s.Require().NoError(err)
	s.Len(created, 2)
	for _, task := range created {
		s.Equal(s.alice.ID, task.CreatorID)
	}
}

func (s *TaskServiceTestSuite) TestCountByStatus() {
	s.createTask(s.alice, "p1", models.TaskStatusPending, s.bob)
	s.createTask(s.alice, "p2", models.TaskStatusPending, s.bob)
	s.createTask(s.alice, "c1", models.TaskStatusCompleted, s.bob)
	s.createTask(s.alice, "other", models.TaskStatusPending, s.carol)

	count, err := s.service.CountByStatus(s.bob.ID, models.TaskStatusPending)
	s.Require().NoError(err)
	s.EqualValues(2, count)

	count, err = s.service.CountByStatus(s.bob.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.EqualValues(0, count)

	_, err = s.service.CountByStatus(s.bob.ID, "bogus")
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *TaskServiceTestSuite) TestDashboard() {
	s.createTask(s.alice, "for bob", models.TaskStatusInProgress, s.bob)
	s.createTask(s.bob, "for alice", models.TaskStatusPending, s.alice)
	s.createTask(s.bob, "also for alice", models.TaskStatusCompleted, s.alice)
	s.createTask(s.carol, "carol's own", models.TaskStatusPending, s.carol)

	d, err := s.service.Dashboard(s.alice.ID)
	s.Require().NoError(err)

	s.Len(d.AssignedToMe, 2)
	s.Len(d.CreatedByMe, 1)
	s.Len(d.AllTasks, 4)
	s.Len(d.Users, 3)
	s.Equal(StatusCounts{Pending: 1, InProgress: 0, Completed: 1}, d.Counts)
}

type fakeDrafter struct {
	drafts []TaskDraft
	err    error
}

func (f fakeDrafter) DraftTasksFromText(context.Context, string) ([]TaskDraft, error) {
	return f.drafts, f.err
}

func (s *TaskServiceTestSuite) TestDraftTasks() {
	_, err := s.service.DraftTasks(context.Background(), "notes")
	s.ErrorIs(err, ErrAIServiceNotConfigured)

	s.service.drafter = fakeDrafter{drafts: []TaskDraft{
		{Title: "  Call the plumber ", Description: "kitchen sink"},
		{Title: ""},
		{Title: strings.Repeat("y", 200)},
	}}
	drafts, err := s.service.DraftTasks(context.Background(), "notes")
	s.Require().NoError(err)
	s.Require().Len(drafts, 1)
	s.Equal("Call the plumber", drafts[0].Title)
	s.EqualValues(0, countTasks(s.T(), s.db))

	s.service.drafter = fakeDrafter{drafts: []TaskDraft{{Title: " "}}}
	_, err = s.service.DraftTasks(context.Background(), "notes")
	s.ErrorIs(err, ErrAINoTasksDrafted)

	s.service.drafter = fakeDrafter{err: errors.New("rate limited")}
	_, err = s.service.DraftTasks(context.Background(), "notes")
	s.Error(err)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
