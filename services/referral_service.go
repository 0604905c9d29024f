package services

import (
	"context"
	"errors"
	"time"

	"firedesk/models"
	"firedesk/repositories"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/sirupsen/logrus"
)

// ReferralService runs the handoff workflow between stations. It only
// references alert/incident ids and mutates those entities through
// their repositories and stores, never directly: the stores keep their
// single-writer discipline.
type ReferralService struct {
	referralRepo *repositories.ReferralRepository
	alertRepo    *repositories.AlertRepository
	incidentRepo *repositories.IncidentRepository

	referrals *stores.ReferralStore
	alerts    *stores.AlertStore
	incidents *stores.IncidentStore
	stations  *stores.StationStore

	notifier  *NotificationService
	validator *utils.ValidationService
	viewer    models.ClientContext
}

func NewReferralService(
	referralRepo *repositories.ReferralRepository,
	alertRepo *repositories.AlertRepository,
	incidentRepo *repositories.IncidentRepository,
	referrals *stores.ReferralStore,
	alerts *stores.AlertStore,
	incidents *stores.IncidentStore,
	stations *stores.StationStore,
	notifier *NotificationService,
	viewer models.ClientContext,
) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		alertRepo:    alertRepo,
		incidentRepo: incidentRepo,
		referrals:    referrals,
		alerts:       alerts,
		incidents:    incidents,
		stations:     stations,
		notifier:     notifier,
		validator:    utils.NewValidationService(),
		viewer:       viewer,
	}
}

// IsStationEligible reports whether a station can receive a handoff:
// it must be in commission and have no other open alert or incident
// currently assigned. Evaluated against live collection state on every
// call, never cached.
func (rs *ReferralService) IsStationEligible(stationID string) bool {
	station, ok := rs.stations.Get(stationID)
	if !ok || station.OutOfCommission {
		return false
	}
	if rs.alerts.HasOpenForStation(stationID) {
		return false
	}
	if rs.incidents.HasOpenForStation(stationID) {
		return false
	}
	return true
}

// Create validates and submits a new referral. All rule violations are
// rejected before any network call.
func (rs *ReferralService) Create(ctx context.Context, req models.CreateReferralRequest) (*models.Referral, error) {
	if validationErrors := rs.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewValidationError(validationErrors[0].Message)
	}

	if req.FromStationID == req.ToStationID {
		return nil, utils.NewInvalidReferralError("Cannot refer to the originating station")
	}
	if station, ok := rs.stations.Get(req.ToStationID); !ok || station.OutOfCommission {
		return nil, utils.NewInvalidReferralError("Target station is out of commission")
	}
	if !rs.IsStationEligible(req.ToStationID) {
		return nil, utils.NewInvalidReferralError("Target station already has an open alert or incident")
	}

	doc, err := rs.referralRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	referral, err := NormalizeReferral(doc)
	if err != nil {
		// The referral was created remotely; the next event or refetch
		// reconciles the canonical record. Until then the caller gets
		// the pending referral as submitted. No id yet, so it stays
		// out of the local store.
		logrus.Warnf("Created referral came back malformed: %v", err)
		return &models.Referral{
			EntityID:      req.EntityID,
			EntityType:    req.EntityType,
			FromStationID: req.FromStationID,
			ToStationID:   req.ToStationID,
			Reason:        req.Reason,
			Status:        models.ReferralStatusPending,
			CreatedAt:     time.Now(),
		}, nil
	}

	rs.referrals.Upsert(referral)
	logrus.Infof("Referral %s created: %s -> %s (%s)", referral.ID, referral.FromStationID, referral.ToStationID, referral.Reason)
	return referral, nil
}

// Accept transitions the referral and its referenced entity as one
// logical unit. If the entity transition fails, the referral update is
// rolled back remotely and nothing changes locally: the caller sees
// either a full commit or a clean failure.
func (rs *ReferralService) Accept(ctx context.Context, referralID string, notes string) (*models.Referral, error) {
	referral, ok := rs.referrals.Get(referralID)
	if !ok {
		return nil, utils.NewNotFoundError("Referral")
	}
	if !referral.IsPending() {
		return nil, utils.NewValidationError("Referral is no longer pending")
	}
	if !rs.viewer.GlobalScope() && rs.viewer.StationID == referral.FromStationID {
		return nil, utils.NewInvalidReferralError("The originating station cannot act on its own referral")
	}

	referralDoc, err := rs.referralRepo.Update(ctx, referralID, map[string]interface{}{
		"status":        models.ReferralStatusAccepted,
		"responseNotes": notes,
	})
	if err != nil {
		return nil, err
	}

	entityDoc, err := rs.transitionEntity(ctx, referral)
	if err != nil {
		rs.rollbackReferral(ctx, referralID)
		return nil, utils.NewRemoteOperationError("Referral acceptance failed: could not update the referred "+referral.EntityType, err)
	}

	if updated, normErr := NormalizeReferral(referralDoc); normErr == nil {
		rs.referrals.Upsert(updated)
		referral = updated
	}
	rs.applyEntityDoc(referral.EntityType, entityDoc)
	rs.notifier.Reevaluate()

	logrus.Infof("Referral %s accepted by station %s", referralID, referral.ToStationID)
	return referral, nil
}

// Reject requires a reason and leaves the referenced entity untouched.
func (rs *ReferralService) Reject(ctx context.Context, referralID string, reason string) (*models.Referral, error) {
	if reason == "" {
		return nil, utils.NewValidationError("A rejection reason is required")
	}

	referral, ok := rs.referrals.Get(referralID)
	if !ok {
		return nil, utils.NewNotFoundError("Referral")
	}
	if !referral.IsPending() {
		return nil, utils.NewValidationError("Referral is no longer pending")
	}
	if !rs.viewer.GlobalScope() && rs.viewer.StationID == referral.FromStationID {
		return nil, utils.NewInvalidReferralError("The originating station cannot act on its own referral")
	}

	doc, err := rs.referralRepo.Update(ctx, referralID, map[string]interface{}{
		"status":        models.ReferralStatusRejected,
		"responseNotes": reason,
	})
	if err != nil {
		return nil, err
	}

	if updated, normErr := NormalizeReferral(doc); normErr == nil {
		rs.referrals.Upsert(updated)
		referral = updated
	}

	logrus.Infof("Referral %s rejected: %s", referralID, reason)
	return referral, nil
}

// transitionEntity moves the referred alert/incident to the accepting
// station with an accepted/active status.
func (rs *ReferralService) transitionEntity(ctx context.Context, referral *models.Referral) (map[string]interface{}, error) {
	switch referral.EntityType {
	case models.ReferralEntityAlert:
		return rs.alertRepo.Update(ctx, referral.EntityID, map[string]interface{}{
			"status":    models.AlertStatusAccepted,
			"stationId": referral.ToStationID,
		})
	case models.ReferralEntityIncident:
		return rs.incidentRepo.Update(ctx, referral.EntityID, map[string]interface{}{
			"status":    models.IncidentStatusActive,
			"stationId": referral.ToStationID,
		})
	}
	return nil, errors.New("unknown referral entity type: " + referral.EntityType)
}

func (rs *ReferralService) rollbackReferral(ctx context.Context, referralID string) {
	_, err := rs.referralRepo.Update(ctx, referralID, map[string]interface{}{
		"status":        models.ReferralStatusPending,
		"responseNotes": "",
	})
	if err != nil {
		// The server will re-converge us through events; nothing local
		// was mutated either way.
		logrus.Errorf("Failed to roll back referral %s: %v", referralID, err)
	}
}

func (rs *ReferralService) applyEntityDoc(entityType string, doc map[string]interface{}) {
	switch entityType {
	case models.ReferralEntityAlert:
		if alert, err := NormalizeAlert(doc); err == nil {
			rs.alerts.Upsert(alert)
		}
	case models.ReferralEntityIncident:
		if incident, err := NormalizeIncident(doc); err == nil {
			rs.incidents.Upsert(incident)
		}
	}
}
