package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"not null" json:"category"`
	Tags        string    `json:"tags,omitempty"`
	// Date and time are stored as the display strings the organizer submitted
	// (YYYY-MM-DD / HH:MM expected but not enforced). Range filters compare
	// them lexically, which matches temporal order for ISO-8601 input.
	Date            string    `gorm:"not null" json:"date"`
	Time            string    `gorm:"not null" json:"time"`
	Venue    string `gorm:"not null" json:"venue"`
	Capacity int    `gorm:"not null;default:0" json:"capacity"`
	// RegisteredCount is the seat counter the registration path claims
	// against. It is maintained inside the same transaction as the
	// registration row, so it never drifts from the ledger.
	RegisteredCount int       `gorm:"not null;default:0" json:"registered_count"`
	OrganizerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Organizer       *User     `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	ContactWhatsapp string    `json:"contact_whatsapp,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// Unlimited reports whether the event has no registration ceiling.
func (event *Event) Unlimited() bool {
	return event.Capacity == 0
}

// ParseTags splits a comma-separated tag string into trimmed, non-empty tags.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SetTags stores the tag list as a single comma-joined string. A tag that
// itself contains a comma is split back apart on read; there is no escaping.
func (event *Event) SetTags(tags []string) {
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed = append(trimmed, strings.TrimSpace(tag))
	}
	event.Tags = strings.Join(trimmed, ",")
}

func (event *Event) TagList() []string {
	return ParseTags(event.Tags)
}
