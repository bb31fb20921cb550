package services

import (
	"strings"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"gorm.io/gorm"
)

// Sort keys accepted by the event search. Anything else falls back to the
// default date ascending order.
const (
	SortDateAsc     = "date_asc"
	SortDateDesc    = "date_desc"
	SortTitleAsc    = "title_asc"
	SortTitleDesc   = "title_desc"
	SortCreatedDesc = "created_desc"
)

// SearchCriteria is the set of optional event filters. Empty fields impose no
// constraint; supplied fields are combined conjunctively.
type SearchCriteria struct {
	Query    string
	Category string
	Venue    string
	DateFrom string
	DateTo   string
	SortBy   string
}

// Apply builds the filtered, ordered event query. The free-text query matches
// title, description or venue case-insensitively; the venue filter is a
// separate substring clause on top of it. Date bounds are inclusive and
// compared as stored strings.
func (criteria SearchCriteria) Apply(db *gorm.DB) *gorm.DB {
	query := db.Model(&models.Event{})

	if criteria.Query != "" {
		pattern := "%" + strings.ToLower(criteria.Query) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}

	if criteria.Venue != "" {
		query = query.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(criteria.Venue)+"%")
	}

	if criteria.DateFrom != "" {
		query = query.Where("date >= ?", criteria.DateFrom)
	}

	if criteria.DateTo != "" {
		query = query.Where("date <= ?", criteria.DateTo)
	}

	switch criteria.SortBy {
	case SortDateDesc:
		query = query.Order("date DESC")
	case SortTitleAsc:
		query = query.Order("title ASC")
	case SortTitleDesc:
		query = query.Order("title DESC")
	case SortCreatedDesc:
		query = query.Order("created_at DESC")
	default:
		query = query.Order("date ASC")
	}

	return query
}

// SearchEvents runs the criteria against the event catalog and returns the
// full matching set. There is no pagination.
func SearchEvents(db *gorm.DB, criteria SearchCriteria) ([]models.Event, error) {
	var events []models.Event
	if err := criteria.Apply(db).Preload("Organizer").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
