package services

import (
	"testing"

	"firedesk/models"

	"github.com/stretchr/testify/assert"
)

var (
	adminViewer    = models.ClientContext{UserID: "u0", Role: models.RoleAdmin}
	stationViewer  = models.ClientContext{UserID: "u1", Role: models.RoleStationAdmin, StationID: "s1"}
	danglingViewer = models.ClientContext{UserID: "u2", Role: models.RoleStationAdmin}
)

func TestAlertRelevance(t *testing.T) {
	rs := NewRelevanceService()

	mine := &models.Alert{ID: "a1", StationID: "s1"}
	other := &models.Alert{ID: "a2", StationID: "s2"}
	unassigned := &models.Alert{ID: "a3"}

	assert.True(t, rs.IsAlertRelevant(mine, adminViewer))
	assert.True(t, rs.IsAlertRelevant(other, adminViewer))
	assert.True(t, rs.IsAlertRelevant(unassigned, adminViewer))

	assert.True(t, rs.IsAlertRelevant(mine, stationViewer))
	assert.False(t, rs.IsAlertRelevant(other, stationViewer))
	assert.False(t, rs.IsAlertRelevant(unassigned, stationViewer))

	// A station-scoped viewer with no station sees nothing
	assert.False(t, rs.IsAlertRelevant(mine, danglingViewer))
	assert.False(t, rs.IsAlertRelevant(nil, adminViewer))
}

func TestIncidentRelevanceFallsBackToAlertStation(t *testing.T) {
	rs := NewRelevanceService()

	viaSnapshot := &models.Incident{
		ID:    "i1",
		Alert: &models.Alert{ID: "a1", StationID: "s1"},
	}
	assert.True(t, rs.IsIncidentRelevant(viaSnapshot, stationViewer))

	direct := &models.Incident{ID: "i2", StationID: "s2"}
	assert.False(t, rs.IsIncidentRelevant(direct, stationViewer))

	// The flat StationID is authoritative over the snapshot
	conflicting := &models.Incident{
		ID:        "i3",
		StationID: "s2",
		Alert:     &models.Alert{ID: "a1", StationID: "s1"},
	}
	assert.False(t, rs.IsIncidentRelevant(conflicting, stationViewer))
}

func TestReferralRelevanceOriginSuppression(t *testing.T) {
	rs := NewRelevanceService()

	inbound := &models.Referral{ID: "r1", FromStationID: "s2", ToStationID: "s1"}
	outbound := &models.Referral{ID: "r2", FromStationID: "s1", ToStationID: "s2"}
	elsewhere := &models.Referral{ID: "r3", FromStationID: "s2", ToStationID: "s3"}

	assert.True(t, rs.IsReferralRelevant(inbound, stationViewer))
	assert.False(t, rs.IsReferralRelevant(outbound, stationViewer), "originator never notified")
	assert.False(t, rs.IsReferralRelevant(elsewhere, stationViewer))

	// Origin suppression wins even when a data anomaly makes both ends
	// the viewer's own station
	loop := &models.Referral{ID: "r4", FromStationID: "s1", ToStationID: "s1"}
	assert.False(t, rs.IsReferralRelevant(loop, stationViewer))

	assert.True(t, rs.IsReferralRelevant(outbound, adminViewer))
}

func TestFilterPreservesOrder(t *testing.T) {
	rs := NewRelevanceService()

	alerts := []*models.Alert{
		{ID: "a1", StationID: "s1"},
		{ID: "a2", StationID: "s2"},
		{ID: "a3", StationID: "s1"},
	}

	filtered := rs.FilterAlerts(alerts, stationViewer)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "a1", filtered[0].ID)
	assert.Equal(t, "a3", filtered[1].ID)
}
