// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"firedesk/controllers"
	"firedesk/middleware"
	"firedesk/models"
	"firedesk/websocket"

	"github.com/gin-gonic/gin"
)

// Controllers groups the console surface handlers.
type Controllers struct {
	Console  *controllers.ConsoleController
	Alert    *controllers.AlertController
	Incident *controllers.IncidentController
	Referral *controllers.ReferralController
}

// SetupRoutes builds the gin engine for the local console surface.
func SetupRoutes(ctrl Controllers, manager *websocket.Manager) *gin.Engine {
	router := gin.New()

	startTime := time.Now()

	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.DefaultCORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     "ok",
			Connection: manager.Status().Status,
			Timestamp:  time.Now(),
			Version:    "1.0.0",
			Uptime:     time.Since(startTime).String(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", ctrl.Console.GetStatus)
		v1.POST("/sync/refetch", ctrl.Console.Refetch)
		v1.POST("/sync/refetch/station/:id", ctrl.Console.RefetchStation)

		v1.GET("/notification", ctrl.Console.GetNotification)
		v1.POST("/notification/dismiss", ctrl.Console.DismissNotification)
		v1.GET("/notification/conflict", ctrl.Console.GetConflict)
		v1.POST("/notification/conflict/clear", ctrl.Console.ClearConflict)

		alerts := v1.Group("/alerts")
		{
			alerts.GET("", ctrl.Alert.GetAlerts)
			alerts.GET("/:id", ctrl.Alert.GetAlert)
			alerts.PATCH("/:id/status", ctrl.Alert.UpdateAlertStatus)
		}

		incidents := v1.Group("/incidents")
		{
			incidents.GET("", ctrl.Incident.GetIncidents)
			incidents.GET("/:id", ctrl.Incident.GetIncident)
			incidents.PATCH("/:id/status", ctrl.Incident.UpdateIncidentStatus)
		}

		referrals := v1.Group("/referrals")
		{
			referrals.GET("", ctrl.Referral.GetReferrals)
			referrals.GET("/actionable", ctrl.Referral.GetActionableReferrals)
			referrals.POST("", ctrl.Referral.CreateReferral)
			referrals.POST("/:id/accept", ctrl.Referral.AcceptReferral)
			referrals.POST("/:id/reject", ctrl.Referral.RejectReferral)
		}
	}

	return router
}
