package models

import "time"

// Referral status constants
const (
	ReferralStatusPending  = "pending"
	ReferralStatusAccepted = "accepted"
	ReferralStatusRejected = "rejected"
)

// Referral entity kinds
const (
	ReferralEntityAlert    = "alert"
	ReferralEntityIncident = "incident"
)

// Referral records an alert or incident handed from one station to
// another. FromStationID and ToStationID are the single authoritative
// id pair; every other representation in wire payloads is resolved to
// them during normalization.
type Referral struct {
	ID            string      `json:"id"`
	EntityID      string      `json:"entityId"`
	EntityType    string      `json:"entityType"`
	FromStationID string      `json:"fromStationId"`
	FromStation   *StationRef `json:"fromStation,omitempty"`
	ToStationID   string      `json:"toStationId"`
	ToStation     *StationRef `json:"toStation,omitempty"`
	Reason        string      `json:"reason"`
	Status        string      `json:"status"`
	ResponseNotes string      `json:"responseNotes,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     *time.Time  `json:"updatedAt,omitempty"`
}

// IsPending reports whether the referral still awaits a decision at the
// destination station.
func (r *Referral) IsPending() bool {
	return r.Status == ReferralStatusPending
}

type CreateReferralRequest struct {
	EntityID      string `json:"entityId" validate:"required"`
	EntityType    string `json:"entityType" validate:"required,oneof=alert incident"`
	FromStationID string `json:"fromStationId" validate:"required"`
	ToStationID   string `json:"toStationId" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
}

type AcceptReferralRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectReferralRequest struct {
	Reason string `json:"reason" validate:"required"`
}
