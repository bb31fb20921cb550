package handlers

import (
	"net/http"
	"time"

	"github.com/eventmaster-dev/eventmaster/internal/helpers"
	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/eventmaster-dev/eventmaster/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func EventAnalytics(c *gin.Context) {
	eventID := c.Param("id")
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	var event models.Event
	if err := db.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "You can only view analytics for your own events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	analytics, err := services.EventAnalytics(db, &event, time.Now().UTC())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing analytics.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":  event.ID,
		"capacity":  event.Capacity,
		"analytics": analytics,
	})
}

// Summary backs the landing page: platform-wide counts plus the three most
// recently created events.
func Summary(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var eventsCount, usersCount, organizersCount int64
	if err := db.Model(&models.Event{}).Count(&eventsCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing summary.")
		return
	}
	if err := db.Model(&models.User{}).Count(&usersCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing summary.")
		return
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleOrganizer).Count(&organizersCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing summary.")
		return
	}

	var recentEvents []models.Event
	if err := db.Order("created_at DESC").Limit(3).Find(&recentEvents).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing summary.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events_count":     eventsCount,
		"users_count":      usersCount,
		"organizers_count": organizersCount,
		"recent_events":    recentEvents,
	})
}
