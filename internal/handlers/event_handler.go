package handlers

import (
	"net/http"

	"github.com/eventmaster-dev/eventmaster/internal/helpers"
	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/eventmaster-dev/eventmaster/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description" binding:"required"`
	Category        string `json:"category" binding:"required"`
	Tags            string `json:"tags"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	Venue           string `json:"venue" binding:"required,max=200"`
	Capacity        int    `json:"capacity" binding:"min=0"`
	ContactPhone    string `json:"contact_phone"`
	ContactWhatsapp string `json:"contact_whatsapp"`
	ContactEmail    string `json:"contact_email"`
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	user, ok := currentUser(c, db)
	if !ok {
		return
	}
	if user.Role != models.RoleOrganizer {
		helpers.RespondWithError(c, http.StatusForbidden, "Only organizers can create events.")
		return
	}

	event := models.Event{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Date:            req.Date,
		Time:            req.Time,
		Venue:           req.Venue,
		Capacity:        req.Capacity,
		OrganizerID:     user.ID,
		ContactPhone:    req.ContactPhone,
		ContactWhatsapp: req.ContactWhatsapp,
		ContactEmail:    req.ContactEmail,
	}
	event.SetTags(models.ParseTags(req.Tags))

	// Contact details fall back to the organizer's own at creation only; the
	// snapshot does not track later profile changes.
	if event.ContactPhone == "" {
		event.ContactPhone = user.Phone
	}
	if event.ContactWhatsapp == "" {
		event.ContactWhatsapp = user.Whatsapp
	}
	if event.ContactEmail == "" {
		event.ContactEmail = user.Email
	}

	if err := db.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	getMailer(c).SendEventCreated(user, &event)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, ok := getDB(c)
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

	registrations, err := services.CountRegistrations(db, event.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":                 event,
		"current_registrations": registrations,
	})
}

func ListEvents(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	events, err := services.SearchEvents(db, services.SearchCriteria{})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func SearchEvents(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	criteria := services.SearchCriteria{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Venue:    c.Query("venue"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		SortBy:   c.DefaultQuery("sort_by", services.SortDateAsc),
	}

	events, err := services.SearchEvents(db, criteria)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error searching events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	var event models.Event
	if err := db.Where("id = ? AND organizer_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Category = req.Category
	event.Date = req.Date
	event.Time = req.Time
	event.Venue = req.Venue
	event.Capacity = req.Capacity
	event.SetTags(models.ParseTags(req.Tags))

	// Edits write the submitted contact fields verbatim; the organizer
	// fallback applies at creation only.
	event.ContactPhone = req.ContactPhone
	event.ContactWhatsapp = req.ContactWhatsapp
	event.ContactEmail = req.ContactEmail

	// Write only the editable columns; registered_count belongs to the
	// registration path and must not be clobbered with a stale read.
	err := db.Model(&event).
		Select("title", "description", "category", "tags", "date", "time", "venue",
			"capacity", "contact_phone", "contact_whatsapp", "contact_email").
		Updates(&event).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
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
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	// Registrations go down with their event in the same transaction.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

func MyEvents(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var events []models.Event
	if user.Role == models.RoleOrganizer {
		if err := db.Where("organizer_id = ?", user.ID).Order("date ASC").Find(&events).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
			return
		}
	} else {
		err := db.Joins("JOIN registrations ON registrations.event_id = events.id").
			Where("registrations.attendee_id = ?", user.ID).
			Order("date ASC").
			Find(&events).Error
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"role":   user.Role,
	})
}
