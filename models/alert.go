package models

import "time"

// Alert type constants
const (
	AlertTypeFire      = "fire"
	AlertTypeMedical   = "medical"
	AlertTypeRescue    = "rescue"
	AlertTypeFlood     = "flood"
	AlertTypeHazardous = "hazardous"
	AlertTypeOther     = "other"
)

// Alert status constants
const (
	AlertStatusActive   = "active"
	AlertStatusPending  = "pending"
	AlertStatusAccepted = "accepted"
	AlertStatusRejected = "rejected"
	AlertStatusReferred = "referred"
)

// Alert priority constants
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Alert is the canonical shape of a reported emergency. Every payload
// variant the central service emits is normalized into this struct before
// any other component sees it.
type Alert struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Title      string        `json:"title"`
	Message    string        `json:"message,omitempty"`
	Reporter   *Reporter     `json:"reporter,omitempty"`
	Location   AlertLocation `json:"location"`
	StationID  string        `json:"stationId,omitempty"`
	Station    *StationRef   `json:"station,omitempty"`
	Priority   string        `json:"priority"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  *time.Time    `json:"updatedAt,omitempty"`
	ResolvedAt *time.Time    `json:"resolvedAt,omitempty"`
}

// Reporter identifies who phoned in the alert. All fields optional.
type Reporter struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type AlertLocation struct {
	Name      string   `json:"name,omitempty"`
	MapURL    string   `json:"mapUrl,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// StationRef is a denormalized station snapshot carried when the payload
// nested the full station object. The flat StationID is always authoritative.
type StationRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// IsOpen reports whether the alert still requires station action.
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusPending
}

// PriorityRank orders priorities for arbitration. Unknown values sort
// with low.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

type UpdateAlertStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending accepted rejected referred"`
}
