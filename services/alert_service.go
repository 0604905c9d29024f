package services

import (
	"context"

	"firedesk/models"
	"firedesk/repositories"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/sirupsen/logrus"
)

// AlertService performs operator-initiated alert transitions. Local
// state only changes from the confirmed mutation response, never
// optimistically: a failed call leaves the collection exactly as the
// last server event left it.
type AlertService struct {
	alertRepo *repositories.AlertRepository
	alerts    *stores.AlertStore
	notifier  *NotificationService
	validator *utils.ValidationService
}

func NewAlertService(alertRepo *repositories.AlertRepository, alerts *stores.AlertStore, notifier *NotificationService) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		alerts:    alerts,
		notifier:  notifier,
		validator: utils.NewValidationService(),
	}
}

func (as *AlertService) UpdateStatus(ctx context.Context, alertID string, req models.UpdateAlertStatusRequest) (*models.Alert, error) {
	if validationErrors := as.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewValidationError(validationErrors[0].Message)
	}
	if _, ok := as.alerts.Get(alertID); !ok {
		return nil, utils.NewNotFoundError("Alert")
	}

	doc, err := as.alertRepo.Update(ctx, alertID, map[string]interface{}{
		"status": req.Status,
	})
	if err != nil {
		return nil, err
	}

	alert, normErr := NormalizeAlert(doc)
	if normErr != nil {
		// Confirmed remotely; the echo event will reconcile the store.
		logrus.Warnf("Updated alert %s came back malformed: %v", alertID, normErr)
		as.notifier.Reevaluate()
		return nil, nil
	}

	as.alerts.Upsert(alert)
	as.notifier.Reevaluate()
	logrus.Infof("Alert %s status -> %s", alertID, alert.Status)
	return alert, nil
}
