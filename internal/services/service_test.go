package services

import (
	"fmt"
	"testing"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database. A single connection
// serializes writes the way the sqlite driver expects under concurrent use.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Registration{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createEvent(t *testing.T, db *gorm.DB, organizer *models.User, event models.Event) *models.Event {
	t.Helper()

	event.OrganizerID = organizer.ID
	if event.Title == "" {
		event.Title = "Untitled"
	}
	if event.Description == "" {
		event.Description = "No description"
	}
	if event.Category == "" {
		event.Category = "conference"
	}
	if event.Date == "" {
		event.Date = "2024-06-01"
	}
	if event.Time == "" {
		event.Time = "10:00"
	}
	if event.Venue == "" {
		event.Venue = "Main Hall"
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event %s: %v", event.Title, err)
	}
	return &event
}
