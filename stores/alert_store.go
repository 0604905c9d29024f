// Package stores holds the in-memory entity collections the realtime
// pipeline keeps consistent with the event stream. Each store owns its
// map exclusively: writes come only from the dispatcher goroutine or
// from confirmed mutation responses, reads may come from anywhere.
package stores

import (
	"sync"

	"firedesk/models"
)

// AlertStore is an insertion-ordered id-to-alert collection. New ids
// are prepended so iteration order is newest-first; a full refetch
// keeps the server-provided order.
type AlertStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Alert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{
		items: make(map[string]*models.Alert),
	}
}

// Upsert inserts or replaces the alert. Applying the same alert twice
// leaves the store observably unchanged: the order slice never gains a
// duplicate entry.
func (s *AlertStore) Upsert(a *models.Alert) {
	if a == nil || a.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[a.ID]; !exists {
		s.order = append([]string{a.ID}, s.order...)
	}
	s.items[a.ID] = a
}

func (s *AlertStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ReplaceAll swaps the whole collection for a refetch result,
// preserving the server-provided order.
func (s *AlertStore) ReplaceAll(alerts []*models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]*models.Alert, len(alerts))
	for _, a := range alerts {
		if a == nil || a.ID == "" {
			continue
		}
		if _, exists := s.items[a.ID]; exists {
			s.items[a.ID] = a
			continue
		}
		s.order = append(s.order, a.ID)
		s.items[a.ID] = a
	}
}

func (s *AlertStore) Get(id string) (*models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	return a, ok
}

// List returns the alerts in collection order, newest-created first.
func (s *AlertStore) List() []*models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Alert, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *AlertStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// HasOpenForStation reports whether any open alert is currently
// assigned to the station. Evaluated live, never cached: referral
// eligibility depends on it.
func (s *AlertStore) HasOpenForStation(stationID string) bool {
	if stationID == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.items {
		if a.StationID == stationID && a.IsOpen() {
			return true
		}
	}
	return false
}
