package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firedesk/controllers"
	"firedesk/models"
	"firedesk/repositories"
	"firedesk/services"
	"firedesk/stores"
	"firedesk/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consoleFixture struct {
	router   *gin.Engine
	alerts   *stores.AlertStore
	notifier *services.NotificationService
	rooms    *websocket.RoomTracker
}

// newConsoleFixture wires the read-only console surface against live
// stores. The central API client points nowhere; none of the exercised
// endpoints perform remote calls.
func newConsoleFixture(viewer models.ClientContext) *consoleFixture {
	gin.SetMode(gin.TestMode)

	client := repositories.NewAPIClient("http://127.0.0.1:1", "", time.Second)
	alertRepo := repositories.NewAlertRepository(client)
	incidentRepo := repositories.NewIncidentRepository(client)
	referralRepo := repositories.NewReferralRepository(client)
	stationRepo := repositories.NewStationRepository(client)

	alerts := stores.NewAlertStore()
	incidents := stores.NewIncidentStore()
	referrals := stores.NewReferralStore()
	stations := stores.NewStationStore()

	relevance := services.NewRelevanceService()
	notifier := services.NewNotificationService(alerts, incidents, relevance, viewer)
	alertService := services.NewAlertService(alertRepo, alerts, notifier)
	incidentService := services.NewIncidentService(incidentRepo, incidents, notifier)
	referralService := services.NewReferralService(
		referralRepo, alertRepo, incidentRepo,
		referrals, alerts, incidents, stations,
		notifier, viewer,
	)
	syncService := services.NewSyncService(
		alertRepo, incidentRepo, referralRepo, stationRepo,
		alerts, incidents, referrals, stations,
		nil, notifier, viewer,
	)

	dispatcher := websocket.NewDispatcher(alerts, incidents, referrals, relevance, notifier, viewer)
	manager := websocket.NewManager("ws://127.0.0.1:1/ws", "", time.Second, time.Second, dispatcher)
	rooms := websocket.NewRoomTracker(manager)

	router := SetupRoutes(Controllers{
		Console:  controllers.NewConsoleController(manager, rooms, notifier, syncService),
		Alert:    controllers.NewAlertController(alertService, alerts, relevance, viewer),
		Incident: controllers.NewIncidentController(incidentService, incidents, relevance, viewer),
		Referral: controllers.NewReferralController(referralService, referrals, relevance, viewer),
	}, manager)

	return &consoleFixture{router: router, alerts: alerts, notifier: notifier, rooms: rooms}
}

func (fx *consoleFixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, models.APIResponse) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	var body models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthEndpoint(t *testing.T) {
	fx := newConsoleFixture(models.ClientContext{UserID: "u1", Role: models.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, models.ConnStatusDisconnected, health.Connection)
}

func TestAlertsEndpointFiltersByViewer(t *testing.T) {
	fx := newConsoleFixture(models.ClientContext{UserID: "u1", Role: models.RoleStationAdmin, StationID: "s1"})

	fx.alerts.Upsert(&models.Alert{ID: "a1", StationID: "s1", Status: models.AlertStatusActive})
	fx.alerts.Upsert(&models.Alert{ID: "a2", StationID: "s2", Status: models.AlertStatusActive})

	rec, body := fx.get(t, "/api/v1/alerts")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, body.Success)

	listed, ok := body.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, listed, 1)
	first := listed[0].(map[string]interface{})
	assert.Equal(t, "a1", first["id"])
}

func TestAlertEndpointNotFound(t *testing.T) {
	fx := newConsoleFixture(models.ClientContext{UserID: "u1", Role: models.RoleAdmin})

	rec, body := fx.get(t, "/api/v1/alerts/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}

func TestNotificationDismissEndpoint(t *testing.T) {
	fx := newConsoleFixture(models.ClientContext{UserID: "u1", Role: models.RoleAdmin})

	fx.alerts.Upsert(&models.Alert{
		ID:       "a1",
		Title:    "Warehouse fire",
		Status:   models.AlertStatusActive,
		Priority: models.PriorityCritical,
	})
	fx.notifier.Reevaluate()

	rec, body := fx.get(t, "/api/v1/notification")
	require.Equal(t, http.StatusOK, rec.Code)
	current, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a1", current["id"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notification/dismiss", nil)
	dismissRec := httptest.NewRecorder()
	fx.router.ServeHTTP(dismissRec, req)
	require.Equal(t, http.StatusOK, dismissRec.Code)

	_, body = fx.get(t, "/api/v1/notification")
	assert.Nil(t, body.Data, "nothing left to surface")
}

func TestStatusEndpointReportsRooms(t *testing.T) {
	fx := newConsoleFixture(models.ClientContext{UserID: "u1", Role: models.RoleStationAdmin, StationID: "s1"})
	fx.rooms.Join("s1")

	rec, body := fx.get(t, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	status, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.ConnStatusDisconnected, status["status"])

	joined, ok := status["joinedRooms"].([]interface{})
	require.True(t, ok)
	require.Len(t, joined, 1)
	assert.Equal(t, "s1", joined[0])
}
