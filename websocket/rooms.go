package websocket

import (
	"sync"

	"firedesk/models"
	"firedesk/utils"

	"github.com/sirupsen/logrus"
)

// RoomTracker remembers which station rooms this client wants to be
// in. Membership is ephemeral server-side: the server forgets it on
// disconnect, so the tracker's desired set is the source of truth and
// is replayed in full after every reconnect.
type RoomTracker struct {
	manager *Manager

	mu      sync.Mutex
	desired map[string]bool
}

func NewRoomTracker(manager *Manager) *RoomTracker {
	return &RoomTracker{
		manager: manager,
		desired: make(map[string]bool),
	}
}

// Join records the intent to be in the station's room and issues the
// join immediately when connected. A failed send is fine: the desired
// set is replayed on the next connect.
func (rt *RoomTracker) Join(stationID string) {
	if stationID == "" {
		return
	}

	rt.mu.Lock()
	rt.desired[stationID] = true
	rt.mu.Unlock()

	if err := rt.sendRoomMessage(models.MsgJoinRoom, stationID); err != nil {
		logrus.Debugf("Join for room %s deferred: %v", stationID, err)
	}
}

// Leave drops the intent and issues the leave when connected.
func (rt *RoomTracker) Leave(stationID string) {
	if stationID == "" {
		return
	}

	rt.mu.Lock()
	delete(rt.desired, stationID)
	rt.mu.Unlock()

	if err := rt.sendRoomMessage(models.MsgLeaveRoom, stationID); err != nil {
		logrus.Debugf("Leave for room %s dropped: %v", stationID, err)
	}
}

// RejoinAll replays the full desired set. Called from the connect hook
// before any refetch starts.
func (rt *RoomTracker) RejoinAll() {
	rt.mu.Lock()
	rooms := make([]string, 0, len(rt.desired))
	for stationID := range rt.desired {
		rooms = append(rooms, stationID)
	}
	rt.mu.Unlock()

	for _, stationID := range rooms {
		if err := rt.sendRoomMessage(models.MsgJoinRoom, stationID); err != nil {
			logrus.Warnf("Rejoin for room %s failed: %v", stationID, err)
		}
	}

	if len(rooms) > 0 {
		logrus.Infof("Rejoined %d station room(s)", len(rooms))
	}
}

// Rooms returns the desired room set for the status surface.
func (rt *RoomTracker) Rooms() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rooms := make([]string, 0, len(rt.desired))
	for stationID := range rt.desired {
		rooms = append(rooms, stationID)
	}
	return rooms
}

func (rt *RoomTracker) sendRoomMessage(messageType, stationID string) error {
	return rt.manager.Send(models.WSControl{
		Type:      messageType,
		Data:      models.WSRoomRequest{StationID: stationID},
		RequestID: utils.GenerateUUID(),
	})
}
