package stores

import (
	"testing"

	"firedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentFixture(id, alertID, stationID, status string) *models.Incident {
	return &models.Incident{
		ID:        id,
		AlertID:   alertID,
		StationID: stationID,
		Status:    status,
	}
}

func TestIncidentStoreActiveForAlert(t *testing.T) {
	store := NewIncidentStore()

	store.Upsert(incidentFixture("i1", "a1", "s1", models.IncidentStatusResolved))
	store.Upsert(incidentFixture("i2", "a1", "s1", models.IncidentStatusActive))
	store.Upsert(incidentFixture("i3", "a2", "s2", models.IncidentStatusActive))

	got, ok := store.ActiveForAlert("a1")
	require.True(t, ok)
	assert.Equal(t, "i2", got.ID, "closed incidents are skipped")

	_, ok = store.ActiveForAlert("a9")
	assert.False(t, ok)
	_, ok = store.ActiveForAlert("")
	assert.False(t, ok)
}

func TestIncidentStoreActiveForAlertNewestWins(t *testing.T) {
	store := NewIncidentStore()

	// Duplicate open records for the same alert: the newest insertion
	// is the handling record.
	store.Upsert(incidentFixture("i1", "a1", "s1", models.IncidentStatusDispatched))
	store.Upsert(incidentFixture("i2", "a1", "s1", models.IncidentStatusActive))

	got, ok := store.ActiveForAlert("a1")
	require.True(t, ok)
	assert.Equal(t, "i2", got.ID)
}

func TestIncidentStoreHasOpenForStation(t *testing.T) {
	store := NewIncidentStore()
	store.Upsert(incidentFixture("i1", "a1", "s1", models.IncidentStatusOnScene))
	store.Upsert(incidentFixture("i2", "a2", "s2", models.IncidentStatusClosed))

	assert.True(t, store.HasOpenForStation("s1"))
	assert.False(t, store.HasOpenForStation("s2"))
}

func TestIncidentStoreReplaceAllDedupes(t *testing.T) {
	store := NewIncidentStore()

	store.ReplaceAll([]*models.Incident{
		incidentFixture("i1", "a1", "s1", models.IncidentStatusActive),
		incidentFixture("i1", "a1", "s1", models.IncidentStatusDispatched),
		incidentFixture("i2", "a2", "s1", models.IncidentStatusActive),
	})

	assert.Equal(t, 2, store.Len())
	got, ok := store.Get("i1")
	require.True(t, ok)
	assert.Equal(t, models.IncidentStatusDispatched, got.Status, "later duplicate wins")
}
