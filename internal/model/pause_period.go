package model

import "time"

// PausePeriod is a user-declared range of calendar days (YYYY-MM-DD,
// inclusive on both ends) that must not break a streak.
type PausePeriod struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
