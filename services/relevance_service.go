package services

import "firedesk/models"

// RelevanceService decides whether a given viewer should perceive a
// given entity at all. Admins see everything; station admins only see
// what is routed to their station. Payload-shape tolerance is not a
// concern here: by the time anything reaches this engine it carries
// canonical flat station ids.
type RelevanceService struct{}

func NewRelevanceService() *RelevanceService {
	return &RelevanceService{}
}

func (rs *RelevanceService) IsAlertRelevant(a *models.Alert, viewer models.ClientContext) bool {
	if a == nil {
		return false
	}
	if viewer.GlobalScope() {
		return true
	}
	if !viewer.HasStation() {
		return false
	}
	return a.StationID != "" && a.StationID == viewer.StationID
}

func (rs *RelevanceService) IsIncidentRelevant(i *models.Incident, viewer models.ClientContext) bool {
	if i == nil {
		return false
	}
	if viewer.GlobalScope() {
		return true
	}
	if !viewer.HasStation() {
		return false
	}

	stationID := i.StationID
	if stationID == "" && i.Alert != nil {
		stationID = i.Alert.StationID
	}
	return stationID != "" && stationID == viewer.StationID
}

// IsReferralRelevant applies the one rule everything else in this
// subsystem exists to protect: a station is notified about a referral
// only when it is the destination, and never about a referral it
// originated itself. Origin suppression wins even when a data anomaly
// makes to_station equal from_station.
func (rs *RelevanceService) IsReferralRelevant(r *models.Referral, viewer models.ClientContext) bool {
	if r == nil {
		return false
	}
	if viewer.GlobalScope() {
		return true
	}
	if !viewer.HasStation() {
		return false
	}
	if r.FromStationID == viewer.StationID {
		return false
	}
	return r.ToStationID == viewer.StationID
}

// FilterAlerts returns the alerts the viewer may see, preserving
// collection order.
func (rs *RelevanceService) FilterAlerts(alerts []*models.Alert, viewer models.ClientContext) []*models.Alert {
	out := make([]*models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if rs.IsAlertRelevant(a, viewer) {
			out = append(out, a)
		}
	}
	return out
}

func (rs *RelevanceService) FilterIncidents(incidents []*models.Incident, viewer models.ClientContext) []*models.Incident {
	out := make([]*models.Incident, 0, len(incidents))
	for _, i := range incidents {
		if rs.IsIncidentRelevant(i, viewer) {
			out = append(out, i)
		}
	}
	return out
}

func (rs *RelevanceService) FilterReferrals(referrals []*models.Referral, viewer models.ClientContext) []*models.Referral {
	out := make([]*models.Referral, 0, len(referrals))
	for _, r := range referrals {
		if rs.IsReferralRelevant(r, viewer) {
			out = append(out, r)
		}
	}
	return out
}
