package services

import (
	"context"
	"sync"

	"firedesk/models"
	"firedesk/repositories"
	"firedesk/stores"

	"github.com/sirupsen/logrus"
)

// SyncService repairs collection state with full refetches. The event
// channel is at-most-once, so every (re)connect triggers a refetch;
// each one carries a generation number and a station-scoped refetch
// bumps it, so a slower full refetch that lands afterwards is
// discarded instead of overwriting more specific data.
type SyncService struct {
	alertRepo    *repositories.AlertRepository
	incidentRepo *repositories.IncidentRepository
	referralRepo *repositories.ReferralRepository
	stationRepo  *repositories.StationRepository

	alerts    *stores.AlertStore
	incidents *stores.IncidentStore
	referrals *stores.ReferralStore
	stations  *stores.StationStore

	cache    *CacheService
	notifier *NotificationService
	viewer   models.ClientContext

	mu         sync.Mutex
	generation uint64
}

func NewSyncService(
	alertRepo *repositories.AlertRepository,
	incidentRepo *repositories.IncidentRepository,
	referralRepo *repositories.ReferralRepository,
	stationRepo *repositories.StationRepository,
	alerts *stores.AlertStore,
	incidents *stores.IncidentStore,
	referrals *stores.ReferralStore,
	stations *stores.StationStore,
	cache *CacheService,
	notifier *NotificationService,
	viewer models.ClientContext,
) *SyncService {
	return &SyncService{
		alertRepo:    alertRepo,
		incidentRepo: incidentRepo,
		referralRepo: referralRepo,
		stationRepo:  stationRepo,
		alerts:       alerts,
		incidents:    incidents,
		referrals:    referrals,
		stations:     stations,
		cache:        cache,
		notifier:     notifier,
		viewer:       viewer,
	}
}

func (ss *SyncService) nextGeneration() uint64 {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.generation++
	return ss.generation
}

func (ss *SyncService) isCurrent(gen uint64) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.generation == gen
}

// RefetchAll reloads every collection in the viewer's scope. A
// station-scoped viewer without a station identity gets no station
// fetches at all: degrading to empty lists beats fetching with an
// undefined identity.
func (ss *SyncService) RefetchAll(ctx context.Context) error {
	if !ss.viewer.GlobalScope() && !ss.viewer.HasStation() {
		logrus.Warn("Station-scoped session has no station context, skipping refetch")
		return nil
	}

	gen := ss.nextGeneration()

	if err := ss.refreshStations(ctx); err != nil {
		logrus.Warnf("Station directory refetch failed: %v", err)
	}

	alertDocs, incidentDocs, referralDocs, err := ss.fetchScoped(ctx, ss.viewer.StationID)
	if err != nil {
		return err
	}

	if !ss.isCurrent(gen) {
		logrus.Debugf("Discarding refetch result from superseded generation %d", gen)
		return nil
	}

	ss.applyDocs(alertDocs, incidentDocs, referralDocs)
	return nil
}

// RefetchStation reloads the collections scoped to one station,
// superseding any in-flight broader refetch.
func (ss *SyncService) RefetchStation(ctx context.Context, stationID string) error {
	if stationID == "" {
		logrus.Warn("Refusing station refetch without a station id")
		return nil
	}

	gen := ss.nextGeneration()

	alertDocs, incidentDocs, referralDocs, err := ss.fetchScoped(ctx, stationID)
	if err != nil {
		return err
	}

	if !ss.isCurrent(gen) {
		logrus.Debugf("Discarding station refetch result from superseded generation %d", gen)
		return nil
	}

	ss.applyDocs(alertDocs, incidentDocs, referralDocs)
	return nil
}

// WarmStart loads whatever snapshot the cache still has so the console
// shows stale-but-visible lists until the first live refetch lands.
func (ss *SyncService) WarmStart(ctx context.Context) {
	if ss.cache == nil {
		return
	}

	alerts, incidents, referrals, ok := ss.cache.LoadSnapshot(ctx)
	if !ok {
		return
	}

	ss.alerts.ReplaceAll(alerts)
	ss.incidents.ReplaceAll(incidents)
	ss.referrals.ReplaceAll(referrals)
	ss.notifier.Reevaluate()
	logrus.Infof("Warm start: %d alerts, %d incidents, %d referrals from snapshot", len(alerts), len(incidents), len(referrals))
}

// Snapshot persists the live collections for the next warm start.
func (ss *SyncService) Snapshot(ctx context.Context) {
	if ss.cache == nil {
		return
	}
	ss.cache.SaveSnapshot(ctx, ss.alerts.List(), ss.incidents.List(), ss.referrals.List())
}

func (ss *SyncService) fetchScoped(ctx context.Context, stationID string) ([]map[string]interface{}, []map[string]interface{}, []map[string]interface{}, error) {
	var (
		alertDocs, incidentDocs, referralDocs []map[string]interface{}
		err                                   error
	)

	if ss.viewer.GlobalScope() {
		if alertDocs, err = ss.alertRepo.GetAll(ctx); err != nil {
			return nil, nil, nil, err
		}
		if incidentDocs, err = ss.incidentRepo.GetAll(ctx); err != nil {
			return nil, nil, nil, err
		}
		if referralDocs, err = ss.referralRepo.GetAll(ctx); err != nil {
			return nil, nil, nil, err
		}
		return alertDocs, incidentDocs, referralDocs, nil
	}

	if alertDocs, err = ss.alertRepo.GetByStation(ctx, stationID); err != nil {
		return nil, nil, nil, err
	}
	if incidentDocs, err = ss.incidentRepo.GetByStation(ctx, stationID); err != nil {
		return nil, nil, nil, err
	}
	if referralDocs, err = ss.referralRepo.GetByStation(ctx, stationID); err != nil {
		return nil, nil, nil, err
	}
	return alertDocs, incidentDocs, referralDocs, nil
}

func (ss *SyncService) applyDocs(alertDocs, incidentDocs, referralDocs []map[string]interface{}) {
	alerts := make([]*models.Alert, 0, len(alertDocs))
	for _, doc := range alertDocs {
		alert, err := NormalizeAlert(doc)
		if err != nil {
			logrus.Warnf("Dropping malformed alert from refetch: %v", err)
			continue
		}
		alerts = append(alerts, alert)
	}

	incidents := make([]*models.Incident, 0, len(incidentDocs))
	for _, doc := range incidentDocs {
		incident, err := NormalizeIncident(doc)
		if err != nil {
			logrus.Warnf("Dropping malformed incident from refetch: %v", err)
			continue
		}
		incidents = append(incidents, incident)
	}

	referrals := make([]*models.Referral, 0, len(referralDocs))
	for _, doc := range referralDocs {
		referral, err := NormalizeReferral(doc)
		if err != nil {
			logrus.Warnf("Dropping malformed referral from refetch: %v", err)
			continue
		}
		referrals = append(referrals, referral)
	}

	ss.alerts.ReplaceAll(alerts)
	ss.incidents.ReplaceAll(incidents)
	ss.referrals.ReplaceAll(referrals)
	ss.notifier.Reevaluate()

	logrus.Infof("Refetch applied: %d alerts, %d incidents, %d referrals", len(alerts), len(incidents), len(referrals))
}

func (ss *SyncService) refreshStations(ctx context.Context) error {
	stations, err := ss.stationRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	ss.stations.ReplaceAll(stations)
	return nil
}
