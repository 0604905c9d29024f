package services

import (
	"sync"
	"time"

	"firedesk/models"
	"firedesk/stores"

	"github.com/sirupsen/logrus"
)

// NotificationService arbitrates which single item is surfaced as the
// live interruptive notification. Candidates are the open, relevant
// alerts and incidents; ordering is priority rank, then incident
// status urgency, then most recent creation. An item already on screen
// is only pre-empted by a strictly higher-ranked arrival; dismissing
// it re-runs arbitration over the remaining open set.
type NotificationService struct {
	alerts    *stores.AlertStore
	incidents *stores.IncidentStore
	relevance *RelevanceService
	viewer    models.ClientContext

	mu        sync.Mutex
	current   *models.Notification
	dismissed map[string]bool
	conflict  *models.ConflictNotice
}

func NewNotificationService(
	alerts *stores.AlertStore,
	incidents *stores.IncidentStore,
	relevance *RelevanceService,
	viewer models.ClientContext,
) *NotificationService {
	return &NotificationService{
		alerts:    alerts,
		incidents: incidents,
		relevance: relevance,
		viewer:    viewer,
		dismissed: make(map[string]bool),
	}
}

// Current returns the notification on display, or nil.
func (ns *NotificationService) Current() *models.Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	return ns.current
}

// Reevaluate recomputes the arbitration after any collection change.
// It is called from the serialized event path and from confirmed
// mutation results, never concurrently for the same entity.
func (ns *NotificationService) Reevaluate() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.pruneDismissed()

	if ns.current != nil && !ns.stillEligible(ns.current) {
		ns.current = nil
	}

	candidate := ns.pickBest()
	if candidate == nil {
		return
	}

	if ns.current == nil {
		ns.current = candidate
		logrus.Debugf("Surfacing notification %s/%s (%s)", candidate.Kind, candidate.ID, candidate.Priority)
		return
	}

	if candidate.ID == ns.current.ID {
		// Same item, refreshed data.
		ns.current = candidate
		return
	}

	if outranks(candidate, ns.current) {
		logrus.Debugf("Notification %s pre-empted by %s", ns.current.ID, candidate.ID)
		ns.current = candidate
	}
}

// Dismiss clears the shown item and keeps it out of arbitration until
// it leaves the open set.
func (ns *NotificationService) Dismiss() {
	ns.mu.Lock()
	if ns.current != nil {
		ns.dismissed[ns.current.ID] = true
		ns.current = nil
	}
	ns.mu.Unlock()

	ns.Reevaluate()
}

// RecordConflict stores the latest active-incident conflict notice.
func (ns *NotificationService) RecordConflict(notice models.ConflictNotice) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if notice.Timestamp.IsZero() {
		notice.Timestamp = time.Now()
	}
	ns.conflict = &notice
}

func (ns *NotificationService) Conflict() *models.ConflictNotice {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	return ns.conflict
}

func (ns *NotificationService) ClearConflict() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.conflict = nil
}

// =================== ARBITRATION INTERNALS ===================

// pickBest scans the open, relevant, not-dismissed set and returns the
// highest ranked candidate. Callers hold ns.mu.
func (ns *NotificationService) pickBest() *models.Notification {
	var best *models.Notification

	for _, a := range ns.alerts.List() {
		if !a.IsOpen() || ns.dismissed[a.ID] {
			continue
		}
		if !ns.relevance.IsAlertRelevant(a, ns.viewer) {
			continue
		}
		candidate := alertNotification(a)
		if best == nil || fullRank(candidate, best) {
			best = candidate
		}
	}

	for _, i := range ns.incidents.List() {
		if !i.IsOpen() || ns.dismissed[i.ID] {
			continue
		}
		if !ns.relevance.IsIncidentRelevant(i, ns.viewer) {
			continue
		}
		candidate := incidentNotification(i)
		if best == nil || fullRank(candidate, best) {
			best = candidate
		}
	}

	return best
}

// stillEligible reports whether the shown item may stay on screen: it
// must still exist, still be open, and still be relevant to the
// viewer. An alert reassigned to another station leaves the screen the
// same way a closed one does. Callers hold ns.mu.
func (ns *NotificationService) stillEligible(n *models.Notification) bool {
	switch n.Kind {
	case models.NotificationKindAlert:
		a, ok := ns.alerts.Get(n.ID)
		return ok && a.IsOpen() && ns.relevance.IsAlertRelevant(a, ns.viewer)
	case models.NotificationKindIncident:
		i, ok := ns.incidents.Get(n.ID)
		return ok && i.IsOpen() && ns.relevance.IsIncidentRelevant(i, ns.viewer)
	}
	return false
}

func (ns *NotificationService) pruneDismissed() {
	for id := range ns.dismissed {
		if a, ok := ns.alerts.Get(id); ok && a.IsOpen() {
			continue
		}
		if i, ok := ns.incidents.Get(id); ok && i.IsOpen() {
			continue
		}
		delete(ns.dismissed, id)
	}
}

func alertNotification(a *models.Alert) *models.Notification {
	return &models.Notification{
		Kind:      models.NotificationKindAlert,
		ID:        a.ID,
		Title:     a.Title,
		Priority:  a.Priority,
		CreatedAt: a.CreatedAt,
		Alert:     a,
	}
}

func incidentNotification(i *models.Incident) *models.Notification {
	title := ""
	if i.Alert != nil {
		title = i.Alert.Title
	}
	return &models.Notification{
		Kind:      models.NotificationKindIncident,
		ID:        i.ID,
		Title:     title,
		Priority:  i.Priority(),
		CreatedAt: i.CreatedAt,
		Incident:  i,
	}
}

func urgencyRank(n *models.Notification) int {
	// Status urgency only differentiates incidents.
	if n.Kind == models.NotificationKindIncident && n.Incident != nil {
		return models.IncidentUrgencyRank(n.Incident.Status)
	}
	return 0
}

// outranks is the pre-emption comparison: strictly higher priority, or
// equal priority with strictly higher incident urgency. Recency alone
// never pre-empts a shown item.
func outranks(candidate, shown *models.Notification) bool {
	cp, sp := models.PriorityRank(candidate.Priority), models.PriorityRank(shown.Priority)
	if cp != sp {
		return cp > sp
	}
	return urgencyRank(candidate) > urgencyRank(shown)
}

// fullRank is the selection comparison used when nothing is on screen:
// priority, then urgency, then most recent creation.
func fullRank(candidate, best *models.Notification) bool {
	cp, bp := models.PriorityRank(candidate.Priority), models.PriorityRank(best.Priority)
	if cp != bp {
		return cp > bp
	}
	cu, bu := urgencyRank(candidate), urgencyRank(best)
	if cu != bu {
		return cu > bu
	}
	return candidate.CreatedAt.After(best.CreatedAt)
}
