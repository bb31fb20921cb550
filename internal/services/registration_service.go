package services

import (
	"errors"
	"time"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfRegistration     = errors.New("organizers cannot register for their own event")
	ErrAlreadyRegistered    = errors.New("attendee is already registered for this event")
	ErrEventFull            = errors.New("event has reached capacity")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// AttemptRegister registers an attendee for an event, enforcing in order: the
// organizer cannot register for their own event, an attendee registers at most
// once, and a non-zero capacity is never exceeded.
//
// The capacity bound is claimed with a conditional UPDATE on the event's
// registered_count before the registration row is inserted. The UPDATE
// row-locks the event and re-evaluates its predicate after any conflicting
// writer commits, so under READ COMMITTED two requests racing for the last
// seat serialize on the event row and only one passes. A duplicate that slips
// past the pre-count hits the unique (event_id, attendee_id) index instead;
// the whole transaction rolls back, releasing the claimed seat.
func AttemptRegister(db *gorm.DB, event *models.Event, attendee *models.User) (*models.Registration, error) {
	if attendee.ID == event.OrganizerID {
		return nil, ErrSelfRegistration
	}

	registration := &models.Registration{
		ID:           uuid.New(),
		EventID:      event.ID,
		AttendeeID:   attendee.ID,
		RegisteredAt: time.Now().UTC(),
		Status:       models.StatusConfirmed,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND attendee_id = ?", event.ID, attendee.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		result := tx.Exec(`
			UPDATE events SET registered_count = registered_count + 1
			WHERE id = ? AND (capacity = 0 OR registered_count < capacity)`,
			event.ID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventFull
		}

		if err := tx.Create(registration).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registration, nil
}

// RemoveRegistration deletes an attendee's registration for an event and
// releases the seat. The caller is responsible for verifying the requester
// owns the event.
func RemoveRegistration(db *gorm.DB, eventID, attendeeID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).
			Delete(&models.Registration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRegistrationNotFound
		}

		return tx.Exec(`
			UPDATE events SET registered_count = registered_count - 1
			WHERE id = ? AND registered_count > 0`,
			eventID,
		).Error
	})
}

// CountRegistrations returns the number of confirmed registrations for an event.
func CountRegistrations(db *gorm.DB, eventID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.StatusConfirmed).
		Count(&count).Error
	return count, err
}

// IsRegistered reports whether the attendee holds a registration for the event.
func IsRegistered(db *gorm.DB, eventID, attendeeID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Registration{}).
		Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).
		Count(&count).Error
	return count > 0, err
}
