package models

import (
	"encoding/json"
	"time"
)

// WSMessage is the wire envelope for everything the event stream
// delivers. Data stays raw until the dispatcher knows the kind.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// WSControl is an outbound control message (room joins and leaves).
type WSControl struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type WSRoomRequest struct {
	StationID string `json:"stationId"`
}

// Inbound event kinds. The dispatcher routes on these and drops
// anything else.
const (
	EventAlertCreated           = "alert.created"
	EventAlertUpdated           = "alert.updated"
	EventAlertDeleted           = "alert.deleted"
	EventIncidentCreated        = "incident.created"
	EventIncidentUpdated        = "incident.updated"
	EventIncidentDeleted        = "incident.deleted"
	EventReferralCreated        = "referral.created"
	EventReferralUpdated        = "referral.updated"
	EventReferralReceived       = "referral.received"
	EventActiveIncidentConflict = "active_incident_conflict"
)

// Outbound control message types.
const (
	MsgJoinRoom  = "join_room"
	MsgLeaveRoom = "leave_room"
)

// Connection states.
const (
	ConnStatusDisconnected = "disconnected"
	ConnStatusConnecting   = "connecting"
	ConnStatusConnected    = "connected"
)

// ConnectionStatus is what the console surface reports about the event
// stream link.
type ConnectionStatus struct {
	Status       string    `json:"status"`
	Attempts     int       `json:"attempts"`
	ConnectedAt  time.Time `json:"connectedAt,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
	JoinedRooms  []string  `json:"joinedRooms"`
	LastActivity time.Time `json:"lastActivity,omitempty"`
}
