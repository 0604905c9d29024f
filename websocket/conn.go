// Package websocket owns the persistent connection to the central
// fire-service event stream: dialing, reconnection with backoff, room
// subscriptions and the serialized dispatch of inbound events. No
// other package touches the transport handle; everything goes through
// the Manager's join/leave/send operations.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"firedesk/models"
	"firedesk/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 65536

	// Buffer size for the outbound control message channel
	sendBufferSize = 64
)

// EventHandler receives every inbound event. It is called from the
// read goroutine, one event at a time: events for the same entity are
// applied in arrival order because nothing here ever suspends.
type EventHandler interface {
	HandleEvent(kind string, data map[string]interface{})
}

type Manager struct {
	url   string
	token string

	dialer     *websocket.Dialer
	minBackoff time.Duration
	maxBackoff time.Duration

	handler   EventHandler
	onConnect func()

	send chan models.WSControl

	mu           sync.RWMutex
	status       string
	attempts     int
	connectedAt  time.Time
	lastActivity time.Time
	lastError    string

	connectionID string
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func NewManager(url, token string, minBackoff, maxBackoff time.Duration, handler EventHandler) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		url:   url,
		token: token,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
		},
		minBackoff:   minBackoff,
		maxBackoff:   maxBackoff,
		handler:      handler,
		send:         make(chan models.WSControl, sendBufferSize),
		status:       models.ConnStatusDisconnected,
		connectionID: utils.GenerateUUID(),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SetOnConnect registers the hook run after every successful
// (re)connect, once the write pump is live. Room rejoins must happen
// inside it, before any refetch is started, so that nothing delivered
// to a room counts as received until the room is joined again.
func (m *Manager) SetOnConnect(hook func()) {
	m.onConnect = hook
}

func (m *Manager) Start() {
	m.wg.Add(1)
	go m.run()
}

func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

// Status reports the connection state for the console surface.
func (m *Manager) Status() models.ConnectionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return models.ConnectionStatus{
		Status:       m.status,
		Attempts:     m.attempts,
		ConnectedAt:  m.connectedAt,
		LastError:    m.lastError,
		LastActivity: m.lastActivity,
	}
}

// Send queues an outbound control message. Fails with a transport
// error when disconnected or when the buffer is full; the caller's
// desired state is re-issued on reconnect anyway.
func (m *Manager) Send(message models.WSControl) error {
	m.mu.RLock()
	connected := m.status == models.ConnStatusConnected
	m.mu.RUnlock()

	if !connected {
		return utils.NewTransportError("not connected", nil)
	}

	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	select {
	case m.send <- message:
		return nil
	default:
		return utils.NewTransportError("send buffer full", nil)
	}
}

func (m *Manager) run() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		m.setStatus(models.ConnStatusConnecting)

		header := http.Header{}
		if m.token != "" {
			header.Set("Authorization", "Bearer "+m.token)
		}
		header.Set("X-Connection-ID", m.connectionID)

		conn, _, err := m.dialer.DialContext(m.ctx, m.url, header)
		if err != nil {
			m.recordFailure(err)
			if !m.sleepBackoff() {
				return
			}
			continue
		}

		m.setConnected()
		logrus.Infof("Event stream connected (attempt counter reset, connection %s)", m.connectionID)

		done := make(chan struct{})
		go m.writePump(conn, done)

		if m.onConnect != nil {
			m.onConnect()
		}

		m.readLoop(conn)

		close(done)
		conn.Close()
		m.setStatus(models.ConnStatusDisconnected)
		logrus.Warn("Event stream disconnected")
	}
}

// readLoop delivers inbound events to the handler synchronously. This
// goroutine is the serialization point for the whole event pipeline.
func (m *Manager) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Errorf("Event stream read error: %v", err)
			}
			return
		}

		m.touch()

		var message models.WSMessage
		if err := json.Unmarshal(raw, &message); err != nil {
			logrus.Warnf("Dropping undecodable frame: %v", err)
			continue
		}
		if message.Type == "" {
			logrus.Warn("Dropping frame without an event kind")
			continue
		}

		data := map[string]interface{}{}
		if len(message.Data) > 0 {
			if err := json.Unmarshal(message.Data, &data); err != nil {
				logrus.Warnf("Dropping %s event with undecodable data: %v", message.Type, err)
				continue
			}
		}

		m.handler.HandleEvent(message.Type, data)
	}
}

func (m *Manager) writePump(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case <-m.ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
			return

		case message := <-m.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(message); err != nil {
				logrus.Errorf("Event stream write error: %v", err)
				conn.Close()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (m *Manager) setStatus(status string) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Manager) setConnected() {
	m.mu.Lock()
	m.status = models.ConnStatusConnected
	m.attempts = 0
	m.connectedAt = time.Now()
	m.lastError = ""
	m.mu.Unlock()
}

func (m *Manager) recordFailure(err error) {
	m.mu.Lock()
	m.status = models.ConnStatusDisconnected
	m.attempts++
	m.lastError = err.Error()
	attempts := m.attempts
	m.mu.Unlock()

	logrus.Warnf("Event stream connect attempt %d failed: %v", attempts, err)
}

func (m *Manager) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

// sleepBackoff waits out the exponential backoff for the current
// attempt count. Returns false when the manager is shutting down.
func (m *Manager) sleepBackoff() bool {
	m.mu.RLock()
	attempts := m.attempts
	m.mu.RUnlock()

	delay := m.minBackoff
	for i := 1; i < attempts && delay < m.maxBackoff; i++ {
		delay *= 2
	}
	if delay > m.maxBackoff {
		delay = m.maxBackoff
	}

	select {
	case <-time.After(delay):
		return true
	case <-m.ctx.Done():
		return false
	}
}
