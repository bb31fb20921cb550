package services

import (
	"time"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"gorm.io/gorm"
)

type Analytics struct {
	TotalRegistrations  int64   `json:"total_registrations"`
	RecentRegistrations int64   `json:"recent_registrations"`
	CapacityUtilization float64 `json:"capacity_utilization"`
}

// Utilization returns total/capacity as a percentage, or 0 for unlimited
// events where the ratio is undefined.
func Utilization(total int64, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(total) / float64(capacity) * 100
}

// EventAnalytics aggregates registration figures for one event: the confirmed
// total, registrations within the trailing 7 days from now, and capacity
// utilization.
func EventAnalytics(db *gorm.DB, event *models.Event, now time.Time) (*Analytics, error) {
	total, err := CountRegistrations(db, event.ID)
	if err != nil {
		return nil, err
	}

	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	var recent int64
	if err := db.Model(&models.Registration{}).
		Where("event_id = ? AND registered_at >= ?", event.ID, sevenDaysAgo).
		Count(&recent).Error; err != nil {
		return nil, err
	}

	return &Analytics{
		TotalRegistrations:  total,
		RecentRegistrations: recent,
		CapacityUtilization: Utilization(total, event.Capacity),
	}, nil
}
