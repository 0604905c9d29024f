package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"firedesk/models"
	"firedesk/repositories"
	"firedesk/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	api       *fakeAPI
	service   *SyncService
	alerts    *stores.AlertStore
	incidents *stores.IncidentStore
	referrals *stores.ReferralStore
	stations  *stores.StationStore
	notifier  *NotificationService
}

func newSyncFixture(t *testing.T, viewer models.ClientContext) *syncFixture {
	api := newFakeAPI(t)
	client := repositories.NewAPIClient(api.server.URL, "test-token", 5*time.Second)

	alerts := stores.NewAlertStore()
	incidents := stores.NewIncidentStore()
	referrals := stores.NewReferralStore()
	stations := stores.NewStationStore()
	notifier := NewNotificationService(alerts, incidents, NewRelevanceService(), viewer)

	service := NewSyncService(
		repositories.NewAlertRepository(client),
		repositories.NewIncidentRepository(client),
		repositories.NewReferralRepository(client),
		repositories.NewStationRepository(client),
		alerts, incidents, referrals, stations,
		nil, notifier, viewer,
	)

	return &syncFixture{
		api:       api,
		service:   service,
		alerts:    alerts,
		incidents: incidents,
		referrals: referrals,
		stations:  stations,
		notifier:  notifier,
	}
}

func listOf(docs ...map[string]interface{}) func(call recordedCall) (int, interface{}) {
	return func(recordedCall) (int, interface{}) {
		if docs == nil {
			docs = []map[string]interface{}{}
		}
		return http.StatusOK, docs
	}
}

func TestRefetchAllGlobalScope(t *testing.T) {
	fx := newSyncFixture(t, adminViewer)

	fx.api.on(http.MethodGet, "/stations", listOf(
		map[string]interface{}{"id": "s1", "name": "Central"},
		map[string]interface{}{"id": "s2", "name": "North", "outOfCommission": true},
	))
	fx.api.on(http.MethodGet, "/alerts", listOf(
		map[string]interface{}{"_id": "a1", "status": "active", "priority": "high", "stationId": "s1"},
		map[string]interface{}{"_id": "a2", "status": "rejected"},
		map[string]interface{}{"title": "malformed, no id"},
	))
	fx.api.on(http.MethodGet, "/incidents", listOf(
		map[string]interface{}{"_id": "i1", "alertId": "a1", "status": "dispatched", "stationId": "s1"},
	))
	fx.api.on(http.MethodGet, "/referrals", listOf())

	require.NoError(t, fx.service.RefetchAll(context.Background()))

	assert.Equal(t, 2, fx.alerts.Len(), "malformed documents are dropped")
	assert.Equal(t, 1, fx.incidents.Len())
	assert.Equal(t, 0, fx.referrals.Len())
	assert.Equal(t, 2, fx.stations.Len())

	station, ok := fx.stations.Get("s2")
	require.True(t, ok)
	assert.True(t, station.OutOfCommission)

	// The refetch re-runs arbitration over the new state
	current := fx.notifier.Current()
	require.NotNil(t, current)
	assert.Equal(t, "a1", current.ID)
}

func TestRefetchAllPreservesServerOrder(t *testing.T) {
	fx := newSyncFixture(t, adminViewer)

	fx.api.on(http.MethodGet, "/stations", listOf())
	fx.api.on(http.MethodGet, "/alerts", listOf(
		map[string]interface{}{"_id": "a3", "status": "active"},
		map[string]interface{}{"_id": "a1", "status": "active"},
		map[string]interface{}{"_id": "a2", "status": "active"},
	))
	fx.api.on(http.MethodGet, "/incidents", listOf())
	fx.api.on(http.MethodGet, "/referrals", listOf())

	// Pre-existing local entries are replaced wholesale
	fx.alerts.Upsert(&models.Alert{ID: "stale", Status: models.AlertStatusActive})

	require.NoError(t, fx.service.RefetchAll(context.Background()))

	listed := fx.alerts.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "a3", listed[0].ID)
	assert.Equal(t, "a1", listed[1].ID)
	assert.Equal(t, "a2", listed[2].ID)
}

func TestRefetchAllStationScopeUsesStationEndpoints(t *testing.T) {
	fx := newSyncFixture(t, stationViewer)

	fx.api.on(http.MethodGet, "/stations", listOf())
	fx.api.on(http.MethodGet, "/alerts", listOf(
		map[string]interface{}{"_id": "a1", "status": "active", "stationId": "s1"},
	))
	fx.api.on(http.MethodGet, "/incidents", listOf())
	fx.api.on(http.MethodGet, "/referrals", listOf())

	require.NoError(t, fx.service.RefetchAll(context.Background()))

	for _, call := range fx.api.recorded() {
		if call.Path == "/stations" {
			continue
		}
		assert.Contains(t, []string{"/alerts", "/incidents", "/referrals"}, call.Path)
	}
	assert.Equal(t, 1, fx.alerts.Len())
}

func TestRefetchAllSkipsWithoutStationIdentity(t *testing.T) {
	fx := newSyncFixture(t, danglingViewer)

	require.NoError(t, fx.service.RefetchAll(context.Background()))
	assert.Empty(t, fx.api.recorded(), "no fetch with an undefined station identity")
}

func TestStationRefetchSupersedesFullRefetch(t *testing.T) {
	fx := newSyncFixture(t, adminViewer)

	release := make(chan struct{})
	fx.api.on(http.MethodGet, "/stations", listOf())
	fx.api.on(http.MethodGet, "/alerts", func(recordedCall) (int, interface{}) {
		// Stall the full refetch until the station refetch has landed
		<-release
		return http.StatusOK, []map[string]interface{}{
			{"_id": "stale-a", "status": "active"},
		}
	})
	fx.api.on(http.MethodGet, "/incidents", listOf())
	fx.api.on(http.MethodGet, "/referrals", listOf())

	fullDone := make(chan error, 1)
	go func() {
		fullDone <- fx.service.RefetchAll(context.Background())
	}()

	// Wait until the full refetch has claimed its generation and is
	// blocked on the alerts fetch
	require.Eventually(t, func() bool {
		for _, call := range fx.api.recorded() {
			if call.Path == "/alerts" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	// Station refetch bumps the generation
	fx.api.on(http.MethodGet, "/alerts", func(recordedCall) (int, interface{}) {
		return http.StatusOK, []map[string]interface{}{
			{"_id": "fresh-a", "status": "active", "stationId": "s1"},
		}
	})
	require.NoError(t, fx.service.RefetchStation(context.Background(), "s1"))

	close(release)
	require.NoError(t, <-fullDone)

	// The superseded full refetch result was discarded
	_, ok := fx.alerts.Get("stale-a")
	assert.False(t, ok)
	_, ok = fx.alerts.Get("fresh-a")
	assert.True(t, ok)
}

func TestWarmStartDisabledWithoutCache(t *testing.T) {
	fx := newSyncFixture(t, adminViewer)

	fx.service.WarmStart(context.Background())
	assert.Equal(t, 0, fx.alerts.Len())
	assert.Empty(t, fx.api.recorded())
}
