package models

import "time"

// Station is a fire station known to the central service. Only the
// fields that affect event routing and referral eligibility are kept.
type Station struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	OutOfCommission bool      `json:"outOfCommission"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// Viewer roles. Admin sees everything; a station admin only sees what
// is routed to their station.
const (
	RoleAdmin        = "admin"
	RoleStationAdmin = "station_admin"
)

// ClientContext carries the identity the relevance engine filters
// against. It is derived once from the operator session token.
type ClientContext struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	StationID string `json:"stationId,omitempty"`
}

// GlobalScope reports whether the viewer sees events for every station.
func (c ClientContext) GlobalScope() bool {
	return c.Role == RoleAdmin
}

// HasStation reports whether a station-scoped viewer has a usable
// station identity. Without one, all station-scoped fetching and room
// joining is suppressed.
func (c ClientContext) HasStation() bool {
	return c.StationID != ""
}
