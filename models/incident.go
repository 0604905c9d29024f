package models

import "time"

// Incident status constants
const (
	IncidentStatusActive     = "active"
	IncidentStatusPending    = "pending"
	IncidentStatusDispatched = "dispatched"
	IncidentStatusOnScene    = "on_scene"
	IncidentStatusResolved   = "resolved"
	IncidentStatusClosed     = "closed"
)

// Incident is the active-response record created once an alert is
// accepted. The Alert field is a denormalized snapshot when the payload
// nested one; AlertID is always the authoritative reference.
type Incident struct {
	ID               string      `json:"id"`
	AlertID          string      `json:"alertId"`
	Alert            *Alert      `json:"alert,omitempty"`
	StationID        string      `json:"stationId,omitempty"`
	Station          *StationRef `json:"station,omitempty"`
	DepartmentOnDuty string      `json:"departmentOnDuty,omitempty"`
	UnitOnDuty       string      `json:"unitOnDuty,omitempty"`
	Status           string      `json:"status"`
	ResponseTime     *int        `json:"responseTime,omitempty"`   // minutes
	ResolutionTime   *int        `json:"resolutionTime,omitempty"` // minutes
	TotalTime        *int        `json:"totalTime,omitempty"`      // minutes
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        *time.Time  `json:"updatedAt,omitempty"`
	ResolvedAt       *time.Time  `json:"resolvedAt,omitempty"`
}

// IsOpen reports whether the incident is still being handled.
func (i *Incident) IsOpen() bool {
	switch i.Status {
	case IncidentStatusResolved, IncidentStatusClosed:
		return false
	}
	return true
}

// Priority of the incident follows its alert snapshot when present.
func (i *Incident) Priority() string {
	if i.Alert != nil {
		return i.Alert.Priority
	}
	return PriorityLow
}

// IncidentUrgencyRank orders incident statuses for arbitration.
// Statuses outside the enumeration sort lowest.
func IncidentUrgencyRank(status string) int {
	switch status {
	case IncidentStatusActive:
		return 4
	case IncidentStatusPending:
		return 3
	case IncidentStatusDispatched:
		return 2
	case IncidentStatusOnScene:
		return 1
	default:
		return 0
	}
}

type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending dispatched on_scene resolved closed"`
}
