package controllers

import (
	"firedesk/models"
	"firedesk/services"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AlertController struct {
	alertService *services.AlertService
	alerts       *stores.AlertStore
	relevance    *services.RelevanceService
	viewer       models.ClientContext
}

func NewAlertController(
	alertService *services.AlertService,
	alerts *stores.AlertStore,
	relevance *services.RelevanceService,
	viewer models.ClientContext,
) *AlertController {
	return &AlertController{
		alertService: alertService,
		alerts:       alerts,
		relevance:    relevance,
		viewer:       viewer,
	}
}

// GetAlerts returns the viewer-relevant slice of the alert collection
// in display order.
func (ac *AlertController) GetAlerts(c *gin.Context) {
	alerts := ac.relevance.FilterAlerts(ac.alerts.List(), ac.viewer)
	utils.SuccessResponse(c, "Alerts retrieved successfully", alerts)
}

// GetAlert returns one alert by id.
func (ac *AlertController) GetAlert(c *gin.Context) {
	alertID := c.Param("id")

	alert, ok := ac.alerts.Get(alertID)
	if !ok {
		utils.ErrorResponse(c, 404, utils.ErrCodeNotFound, "Alert not found")
		return
	}

	utils.SuccessResponse(c, "Alert retrieved successfully", alert)
}

// UpdateAlertStatus forwards a status change to the central API and
// applies the confirmed result.
func (ac *AlertController) UpdateAlertStatus(c *gin.Context) {
	alertID := c.Param("id")

	var req models.UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, utils.ErrCodeValidation, "Invalid request body")
		return
	}

	alert, err := ac.alertService.UpdateStatus(c.Request.Context(), alertID, req)
	if err != nil {
		logrus.Errorf("Update alert status failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert status updated successfully", alert)
}
