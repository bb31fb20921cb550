package handlers

import (
	"net/http"

	"github.com/eventmaster-dev/eventmaster/internal/helpers"
	"github.com/eventmaster-dev/eventmaster/internal/mailer"
	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// getDB pulls the gorm handle set by DatabaseMiddleware. It writes the error
// response itself so callers can just return on !ok.
func getDB(c *gin.Context) (*gorm.DB, bool) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db.(*gorm.DB), true
}

// getMailer returns the configured mailer, or nil when mail is disabled.
func getMailer(c *gin.Context) *mailer.Mailer {
	m, exists := c.Get("mailer")
	if !exists {
		return nil
	}
	return m.(*mailer.Mailer)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return nil, false
	}
	return &user, true
}
