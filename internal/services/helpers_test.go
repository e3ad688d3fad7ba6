package services

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"}
	db, err := database.Connect(cfg, logger.NewWithOutput("error", io.Discard))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

// stepClock returns a clock that advances by one minute on every call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Minute)
		return now
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	return countRows(t, db, &models.User{})
}

func countTasks(t *testing.T, db *gorm.DB) int64 {
	return countRows(t, db, &models.Task{})
}
