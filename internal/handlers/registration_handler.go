package handlers

import (
	"errors"
	"net/http"

	"github.com/eventmaster-dev/eventmaster/internal/helpers"
	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/eventmaster-dev/eventmaster/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func RegisterForEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, ok := getDB(c)
	if !ok {
		return
	}

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var event models.Event
	if err := db.Preload("Organizer").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	registration, err := services.AttemptRegister(db, &event, user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRegistration):
			helpers.RespondWithError(c, http.StatusBadRequest, "You are the organizer of this event - no need to register.")
		case errors.Is(err, services.ErrAlreadyRegistered):
			helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
		case errors.Is(err, services.ErrEventFull):
			helpers.RespondWithError(c, http.StatusConflict, "Sorry, this event is full.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to register for event.")
		}
		return
	}

	getMailer(c).SendRegistrationConfirmation(user, &event)

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Successfully registered for the event.",
		"registration": registration,
	})
}

// ListAttendees returns every registration for an event the caller organizes.
func ListAttendees(c *gin.Context) {
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
			helpers.RespondWithError(c, http.StatusForbidden, "You can only view attendees for your own events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var registrations []models.Registration
	if err := db.Preload("Attendee").Where("event_id = ?", event.ID).Order("registered_at ASC").Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving attendees.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":      event.ID,
		"registrations": registrations,
	})
}

func RemoveAttendee(c *gin.Context) {
	eventID := c.Param("id")
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(c.Param("attendee_id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid attendee ID.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	var event models.Event
	if err := db.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "You can only manage attendees for your own events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if err := services.RemoveRegistration(db, event.ID, attendeeID); err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Attendee not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove attendee.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendee removed successfully."})
}
