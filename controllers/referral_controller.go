package controllers

import (
	"firedesk/models"
	"firedesk/services"
	"firedesk/stores"
	"firedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReferralController struct {
	referralService *services.ReferralService
	referrals       *stores.ReferralStore
	relevance       *services.RelevanceService
	viewer          models.ClientContext
}

func NewReferralController(
	referralService *services.ReferralService,
	referrals *stores.ReferralStore,
	relevance *services.RelevanceService,
	viewer models.ClientContext,
) *ReferralController {
	return &ReferralController{
		referralService: referralService,
		referrals:       referrals,
		relevance:       relevance,
		viewer:          viewer,
	}
}

// GetReferrals returns the full referral collection in display order.
func (rc *ReferralController) GetReferrals(c *gin.Context) {
	utils.SuccessResponse(c, "Referrals retrieved successfully", rc.referrals.List())
}

// GetActionableReferrals returns pending referrals that require this
// viewer's action, meaning referrals addressed to the viewer's station
// that the viewer's station did not originate.
func (rc *ReferralController) GetActionableReferrals(c *gin.Context) {
	actionable := make([]*models.Referral, 0)
	for _, r := range rc.relevance.FilterReferrals(rc.referrals.List(), rc.viewer) {
		if r.IsPending() {
			actionable = append(actionable, r)
		}
	}
	utils.SuccessResponse(c, "Actionable referrals retrieved successfully", actionable)
}

// CreateReferral validates target eligibility locally, then creates
// the referral on the central API.
func (rc *ReferralController) CreateReferral(c *gin.Context) {
	var req models.CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, utils.ErrCodeValidation, "Invalid request body")
		return
	}

	referral, err := rc.referralService.Create(c.Request.Context(), req)
	if err != nil {
		logrus.Errorf("Create referral failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Referral created successfully", referral)
}

// AcceptReferral accepts a pending referral and transitions the
// referred entity to the accepting station.
func (rc *ReferralController) AcceptReferral(c *gin.Context) {
	referralID := c.Param("id")

	var req models.AcceptReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, utils.ErrCodeValidation, "Invalid request body")
		return
	}

	referral, err := rc.referralService.Accept(c.Request.Context(), referralID, req.Notes)
	if err != nil {
		logrus.Errorf("Accept referral %s failed: %v", referralID, err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Referral accepted successfully", referral)
}

// RejectReferral rejects a pending referral. The referred entity is
// left untouched.
func (rc *ReferralController) RejectReferral(c *gin.Context) {
	referralID := c.Param("id")

	var req models.RejectReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, utils.ErrCodeValidation, "Invalid request body")
		return
	}

	referral, err := rc.referralService.Reject(c.Request.Context(), referralID, req.Reason)
	if err != nil {
		logrus.Errorf("Reject referral %s failed: %v", referralID, err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Referral rejected successfully", referral)
}
