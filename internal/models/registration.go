package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const StatusConfirmed = "confirmed"

type Registration struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_attendee" json:"event_id"`
	AttendeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee" json:"attendee_id"`
	Event        *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Attendee     *User     `gorm:"foreignKey:AttendeeID" json:"attendee,omitempty"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	Status       string    `gorm:"not null;default:'confirmed'" json:"status"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}
