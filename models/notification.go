package models

import "time"

// Notification kinds
const (
	NotificationKindAlert    = "alert"
	NotificationKindIncident = "incident"
)

// Notification is the single interruptive item arbitration has selected
// for display. Exactly one of Alert/Incident is set, matching Kind.
type Notification struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	Alert     *Alert    `json:"alert,omitempty"`
	Incident  *Incident `json:"incident,omitempty"`
}

// ConflictNotice is surfaced when a new alert targets a station that
// already has an open incident.
type ConflictNotice struct {
	AlertID   string    `json:"alertId"`
	StationID string    `json:"stationId"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
