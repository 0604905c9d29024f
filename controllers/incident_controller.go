package controllers

import (
	"firedesk/models"
	"firedesk/services"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type IncidentController struct {
	incidentService *services.IncidentService
	incidents       *stores.IncidentStore
	relevance       *services.RelevanceService
	viewer          models.ClientContext
}

func NewIncidentController(
	incidentService *services.IncidentService,
	incidents *stores.IncidentStore,
	relevance *services.RelevanceService,
	viewer models.ClientContext,
) *IncidentController {
	return &IncidentController{
		incidentService: incidentService,
		incidents:       incidents,
		relevance:       relevance,
		viewer:          viewer,
	}
}

// GetIncidents returns the viewer-relevant slice of the incident
// collection in display order.
func (ic *IncidentController) GetIncidents(c *gin.Context) {
	incidents := ic.relevance.FilterIncidents(ic.incidents.List(), ic.viewer)
	utils.SuccessResponse(c, "Incidents retrieved successfully", incidents)
}

// GetIncident returns one incident by id.
func (ic *IncidentController) GetIncident(c *gin.Context) {
	incidentID := c.Param("id")

	incident, ok := ic.incidents.Get(incidentID)
	if !ok {
		utils.ErrorResponse(c, 404, utils.ErrCodeNotFound, "Incident not found")
		return
	}

	utils.SuccessResponse(c, "Incident retrieved successfully", incident)
}

// UpdateIncidentStatus forwards a status change to the central API and
// applies the confirmed result.
func (ic *IncidentController) UpdateIncidentStatus(c *gin.Context) {
	incidentID := c.Param("id")

	var req models.UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, utils.ErrCodeValidation, "Invalid request body")
		return
	}

	incident, err := ic.incidentService.UpdateStatus(c.Request.Context(), incidentID, req)
	if err != nil {
		logrus.Errorf("Update incident status failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident status updated successfully", incident)
}
