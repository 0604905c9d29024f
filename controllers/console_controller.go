package controllers

import (
	"firedesk/services"
	"firedesk/utils"
	"firedesk/websocket"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConsoleController exposes connection state, the arbitrated
// notification, and manual sync to the console UI.
type ConsoleController struct {
	manager     *websocket.Manager
	rooms       *websocket.RoomTracker
	notifier    *services.NotificationService
	syncService *services.SyncService
}

func NewConsoleController(
	manager *websocket.Manager,
	rooms *websocket.RoomTracker,
	notifier *services.NotificationService,
	syncService *services.SyncService,
) *ConsoleController {
	return &ConsoleController{
		manager:     manager,
		rooms:       rooms,
		notifier:    notifier,
		syncService: syncService,
	}
}

// GetStatus reports the event stream link state and the station rooms
// this client is subscribed to.
func (cc *ConsoleController) GetStatus(c *gin.Context) {
	status := cc.manager.Status()
	status.JoinedRooms = cc.rooms.Rooms()
	utils.SuccessResponse(c, "Connection status retrieved successfully", status)
}

// GetNotification returns the single arbitrated notification, or null
// when nothing is being surfaced.
func (cc *ConsoleController) GetNotification(c *gin.Context) {
	utils.SuccessResponse(c, "Notification retrieved successfully", cc.notifier.Current())
}

// DismissNotification clears the shown notification. The dismissed
// item stays suppressed until it closes server-side.
func (cc *ConsoleController) DismissNotification(c *gin.Context) {
	cc.notifier.Dismiss()
	utils.SuccessResponse(c, "Notification dismissed", cc.notifier.Current())
}

// GetConflict returns the latest active-incident conflict notice.
func (cc *ConsoleController) GetConflict(c *gin.Context) {
	utils.SuccessResponse(c, "Conflict notice retrieved successfully", cc.notifier.Conflict())
}

// ClearConflict acknowledges the conflict notice.
func (cc *ConsoleController) ClearConflict(c *gin.Context) {
	cc.notifier.ClearConflict()
	utils.SuccessResponse(c, "Conflict notice cleared", nil)
}

// Refetch forces a full snapshot refetch from the central API.
func (cc *ConsoleController) Refetch(c *gin.Context) {
	if err := cc.syncService.RefetchAll(c.Request.Context()); err != nil {
		logrus.Errorf("Manual refetch failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Collections refetched successfully", nil)
}

// RefetchStation reloads the collections for one station, superseding
// any broader refetch still in flight.
func (cc *ConsoleController) RefetchStation(c *gin.Context) {
	stationID := c.Param("id")

	if err := cc.syncService.RefetchStation(c.Request.Context(), stationID); err != nil {
		logrus.Errorf("Station refetch failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Station collections refetched successfully", nil)
}
