package services

import (
	"context"

	"firedesk/models"
	"firedesk/repositories"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/sirupsen/logrus"
)

type IncidentService struct {
	incidentRepo *repositories.IncidentRepository
	incidents    *stores.IncidentStore
	notifier     *NotificationService
	validator    *utils.ValidationService
}

func NewIncidentService(incidentRepo *repositories.IncidentRepository, incidents *stores.IncidentStore, notifier *NotificationService) *IncidentService {
	return &IncidentService{
		incidentRepo: incidentRepo,
		incidents:    incidents,
		notifier:     notifier,
		validator:    utils.NewValidationService(),
	}
}

func (is *IncidentService) UpdateStatus(ctx context.Context, incidentID string, req models.UpdateIncidentStatusRequest) (*models.Incident, error) {
	if validationErrors := is.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewValidationError(validationErrors[0].Message)
	}
	if _, ok := is.incidents.Get(incidentID); !ok {
		return nil, utils.NewNotFoundError("Incident")
	}

	doc, err := is.incidentRepo.Update(ctx, incidentID, map[string]interface{}{
		"status": req.Status,
	})
	if err != nil {
		return nil, err
	}

	incident, normErr := NormalizeIncident(doc)
	if normErr != nil {
		logrus.Warnf("Updated incident %s came back malformed: %v", incidentID, normErr)
		is.notifier.Reevaluate()
		return nil, nil
	}

	is.incidents.Upsert(incident)
	is.notifier.Reevaluate()
	logrus.Infof("Incident %s status -> %s", incidentID, incident.Status)
	return incident, nil
}
