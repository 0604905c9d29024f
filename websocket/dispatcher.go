package websocket

import (
	"firedesk/models"
	"firedesk/services"
	"firedesk/stores"

	"github.com/sirupsen/logrus"
)

// Dispatcher routes inbound events to per-kind handlers. It runs on
// the Manager's read goroutine, so the whole
// normalize -> upsert -> filter -> arbitrate path is synchronous and
// serialized; two events for the same id are always applied in arrival
// order. Errors are contained here: a malformed payload costs one
// dropped event, never the pipeline.
type Dispatcher struct {
	alerts    *stores.AlertStore
	incidents *stores.IncidentStore
	referrals *stores.ReferralStore
	relevance *services.RelevanceService
	notifier  *services.NotificationService
	viewer    models.ClientContext
}

func NewDispatcher(
	alerts *stores.AlertStore,
	incidents *stores.IncidentStore,
	referrals *stores.ReferralStore,
	relevance *services.RelevanceService,
	notifier *services.NotificationService,
	viewer models.ClientContext,
) *Dispatcher {
	return &Dispatcher{
		alerts:    alerts,
		incidents: incidents,
		referrals: referrals,
		relevance: relevance,
		notifier:  notifier,
		viewer:    viewer,
	}
}

func (d *Dispatcher) HandleEvent(kind string, data map[string]interface{}) {
	switch kind {
	case models.EventAlertCreated, models.EventAlertUpdated:
		// An update for an id we have never seen is an implicit
		// create; upsert covers both.
		d.handleAlertUpsert(kind, data)
	case models.EventAlertDeleted:
		d.handleAlertDeleted(data)
	case models.EventIncidentCreated, models.EventIncidentUpdated:
		d.handleIncidentUpsert(kind, data)
	case models.EventIncidentDeleted:
		d.handleIncidentDeleted(data)
	case models.EventReferralCreated, models.EventReferralUpdated:
		d.handleReferralUpsert(kind, data)
	case models.EventReferralReceived:
		d.handleReferralReceived(data)
	case models.EventActiveIncidentConflict:
		d.handleConflict(data)
	default:
		logrus.Debugf("Dropping unknown event kind %q", kind)
	}
}

func (d *Dispatcher) handleAlertUpsert(kind string, data map[string]interface{}) {
	alert, err := services.NormalizeAlert(data)
	if err != nil {
		logrus.Warnf("Dropping %s event: %v", kind, err)
		return
	}

	d.alerts.Upsert(alert)

	// Re-arbitrate even when the new state is not relevant to the
	// viewer: the update may have moved the shown item out of scope.
	d.notifier.Reevaluate()
}

func (d *Dispatcher) handleAlertDeleted(data map[string]interface{}) {
	id := services.DocumentID(data)
	if id == "" {
		logrus.Warn("Dropping alert.deleted event without an id")
		return
	}

	d.alerts.Remove(id)
	d.notifier.Reevaluate()
}

func (d *Dispatcher) handleIncidentUpsert(kind string, data map[string]interface{}) {
	incident, err := services.NormalizeIncident(data)
	if err != nil {
		logrus.Warnf("Dropping %s event: %v", kind, err)
		return
	}

	d.incidents.Upsert(incident)

	d.notifier.Reevaluate()
}

func (d *Dispatcher) handleIncidentDeleted(data map[string]interface{}) {
	id := services.DocumentID(data)
	if id == "" {
		logrus.Warn("Dropping incident.deleted event without an id")
		return
	}

	d.incidents.Remove(id)
	d.notifier.Reevaluate()
}

func (d *Dispatcher) handleReferralUpsert(kind string, data map[string]interface{}) {
	referral, err := services.NormalizeReferral(data)
	if err != nil {
		logrus.Warnf("Dropping %s event: %v", kind, err)
		return
	}

	d.referrals.Upsert(referral)
}

// handleReferralReceived is the targeted notification to the
// destination station. The relevance check runs even though the server
// targets the room: a referral this client originated must never be
// treated as requiring its own action.
func (d *Dispatcher) handleReferralReceived(data map[string]interface{}) {
	referral, err := services.NormalizeReferral(data)
	if err != nil {
		logrus.Warnf("Dropping referral.received event: %v", err)
		return
	}

	d.referrals.Upsert(referral)

	if d.relevance.IsReferralRelevant(referral, d.viewer) {
		logrus.Infof("Referral %s received from station %s (%s)", referral.ID, referral.FromStationID, referral.Reason)
	}
}

func (d *Dispatcher) handleConflict(data map[string]interface{}) {
	notice := models.ConflictNotice{
		AlertID:   services.CanonicalID(firstOf(data, "alertId", "alert_id", "alert")),
		StationID: services.CanonicalID(firstOf(data, "stationId", "station_id", "station")),
		Message:   stringOf(data, "message"),
	}
	if notice.AlertID == "" {
		logrus.Warn("Dropping active_incident_conflict event without an alert id")
		return
	}

	if !d.viewer.GlobalScope() && notice.StationID != d.viewer.StationID {
		return
	}

	d.notifier.RecordConflict(notice)
	logrus.Warnf("Active incident conflict for station %s (alert %s)", notice.StationID, notice.AlertID)
}

func firstOf(data map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := data[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringOf(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
