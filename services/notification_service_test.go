package services

import (
	"testing"
	"time"

	"firedesk/models"
	"firedesk/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifierFixture(viewer models.ClientContext) (*NotificationService, *stores.AlertStore, *stores.IncidentStore) {
	alerts := stores.NewAlertStore()
	incidents := stores.NewIncidentStore()
	ns := NewNotificationService(alerts, incidents, NewRelevanceService(), viewer)
	return ns, alerts, incidents
}

func openAlert(id, priority string, createdAt time.Time) *models.Alert {
	return &models.Alert{
		ID:        id,
		Title:     "Alert " + id,
		Status:    models.AlertStatusActive,
		Priority:  priority,
		CreatedAt: createdAt,
	}
}

func TestArbitrationPicksHighestPriority(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(adminViewer)
	now := time.Now()

	alerts.Upsert(openAlert("a-low", models.PriorityLow, now))
	alerts.Upsert(openAlert("a-crit", models.PriorityCritical, now.Add(-time.Hour)))
	alerts.Upsert(openAlert("a-med", models.PriorityMedium, now))
	ns.Reevaluate()

	current := ns.Current()
	require.NotNil(t, current)
	assert.Equal(t, "a-crit", current.ID, "priority beats recency")
}

func TestArbitrationRecencyBreaksTies(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(adminViewer)
	now := time.Now()

	alerts.Upsert(openAlert("a-old", models.PriorityHigh, now.Add(-time.Hour)))
	alerts.Upsert(openAlert("a-new", models.PriorityHigh, now))
	ns.Reevaluate()

	current := ns.Current()
	require.NotNil(t, current)
	assert.Equal(t, "a-new", current.ID)
}

func TestArbitrationPreemptionIsStrict(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(adminViewer)
	now := time.Now()

	alerts.Upsert(openAlert("a1", models.PriorityHigh, now.Add(-time.Minute)))
	ns.Reevaluate()
	require.Equal(t, "a1", ns.Current().ID)

	// An equally ranked newer arrival does not replace the shown item
	alerts.Upsert(openAlert("a2", models.PriorityHigh, now))
	ns.Reevaluate()
	assert.Equal(t, "a1", ns.Current().ID)

	// A strictly higher ranked arrival does
	alerts.Upsert(openAlert("a3", models.PriorityCritical, now))
	ns.Reevaluate()
	assert.Equal(t, "a3", ns.Current().ID)
}

func TestIncidentUrgencyBreaksPriorityTies(t *testing.T) {
	ns, _, incidents := newNotifierFixture(adminViewer)
	now := time.Now()

	critical := &models.Alert{ID: "a1", Priority: models.PriorityCritical, Status: models.AlertStatusAccepted}

	incidents.Upsert(&models.Incident{
		ID: "i-onscene", AlertID: "a1", Alert: critical,
		Status: models.IncidentStatusOnScene, CreatedAt: now,
	})
	incidents.Upsert(&models.Incident{
		ID: "i-active", AlertID: "a1", Alert: critical,
		Status: models.IncidentStatusActive, CreatedAt: now.Add(-time.Hour),
	})
	ns.Reevaluate()

	current := ns.Current()
	require.NotNil(t, current)
	assert.Equal(t, "i-active", current.ID, "active outranks on_scene at equal priority")
}

func TestAlertsCarryNoUrgency(t *testing.T) {
	ns, alerts, incidents := newNotifierFixture(adminViewer)
	now := time.Now()

	// Incident with critical snapshot and active status vs a critical
	// alert: the incident's urgency wins the tie regardless of recency
	alerts.Upsert(openAlert("a1", models.PriorityCritical, now))
	incidents.Upsert(&models.Incident{
		ID:      "i1",
		AlertID: "a9",
		Alert:   &models.Alert{ID: "a9", Priority: models.PriorityCritical},
		Status:  models.IncidentStatusActive, CreatedAt: now.Add(-time.Hour),
	})
	ns.Reevaluate()

	require.NotNil(t, ns.Current())
	assert.Equal(t, "i1", ns.Current().ID)
}

func TestDismissSuppressesUntilClosed(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(adminViewer)
	now := time.Now()

	alerts.Upsert(openAlert("a1", models.PriorityCritical, now))
	alerts.Upsert(openAlert("a2", models.PriorityLow, now))
	ns.Reevaluate()
	require.Equal(t, "a1", ns.Current().ID)

	ns.Dismiss()
	require.NotNil(t, ns.Current())
	assert.Equal(t, "a2", ns.Current().ID, "arbitration re-runs over the remainder")

	// A refreshed event for the dismissed item does not resurface it
	alerts.Upsert(openAlert("a1", models.PriorityCritical, now.Add(time.Minute)))
	ns.Reevaluate()
	assert.Equal(t, "a2", ns.Current().ID)

	// Once it closes and reopens server-side the suppression is gone
	closed := openAlert("a1", models.PriorityCritical, now)
	closed.Status = models.AlertStatusRejected
	alerts.Upsert(closed)
	ns.Reevaluate()

	alerts.Upsert(openAlert("a1", models.PriorityCritical, now.Add(2*time.Minute)))
	ns.Reevaluate()
	assert.Equal(t, "a1", ns.Current().ID)
}

func TestCurrentClearsWhenItemCloses(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(adminViewer)

	alerts.Upsert(openAlert("a1", models.PriorityHigh, time.Now()))
	ns.Reevaluate()
	require.NotNil(t, ns.Current())

	resolved := openAlert("a1", models.PriorityHigh, time.Now())
	resolved.Status = models.AlertStatusAccepted
	alerts.Upsert(resolved)
	ns.Reevaluate()

	assert.Nil(t, ns.Current())
}

func TestArbitrationHonorsRelevance(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(stationViewer)
	now := time.Now()

	foreign := openAlert("a-other", models.PriorityCritical, now)
	foreign.StationID = "s2"
	alerts.Upsert(foreign)

	mine := openAlert("a-mine", models.PriorityLow, now)
	mine.StationID = "s1"
	alerts.Upsert(mine)

	ns.Reevaluate()
	require.NotNil(t, ns.Current())
	assert.Equal(t, "a-mine", ns.Current().ID, "irrelevant items never surface")
}

func TestShownItemClearsWhenItBecomesIrrelevant(t *testing.T) {
	ns, alerts, _ := newNotifierFixture(stationViewer)

	mine := openAlert("a1", models.PriorityCritical, time.Now())
	mine.StationID = "s1"
	alerts.Upsert(mine)
	ns.Reevaluate()
	require.NotNil(t, ns.Current())

	// Still open, but reassigned away from the viewer's station.
	moved := openAlert("a1", models.PriorityCritical, mine.CreatedAt)
	moved.StationID = "s2"
	alerts.Upsert(moved)
	ns.Reevaluate()

	assert.Nil(t, ns.Current(), "relevance is re-checked for the shown item, not only candidates")
}

func TestConflictNotice(t *testing.T) {
	ns, _, _ := newNotifierFixture(adminViewer)

	require.Nil(t, ns.Conflict())
	ns.RecordConflict(models.ConflictNotice{AlertID: "a1", StationID: "s1"})

	notice := ns.Conflict()
	require.NotNil(t, notice)
	assert.Equal(t, "a1", notice.AlertID)
	assert.False(t, notice.Timestamp.IsZero())

	ns.ClearConflict()
	assert.Nil(t, ns.Conflict())
}
