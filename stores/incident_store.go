package stores

import (
	"sync"

	"firedesk/models"
)

// IncidentStore mirrors AlertStore for incidents, plus the per-alert
// active-record lookup.
type IncidentStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Incident
}

func NewIncidentStore() *IncidentStore {
	return &IncidentStore{
		items: make(map[string]*models.Incident),
	}
}

func (s *IncidentStore) Upsert(i *models.Incident) {
	if i == nil || i.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[i.ID]; !exists {
		s.order = append([]string{i.ID}, s.order...)
	}
	s.items[i.ID] = i
}

func (s *IncidentStore) Remove(id string) {
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

func (s *IncidentStore) ReplaceAll(incidents []*models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]*models.Incident, len(incidents))
	for _, i := range incidents {
		if i == nil || i.ID == "" {
			continue
		}
		if _, exists := s.items[i.ID]; exists {
			s.items[i.ID] = i
			continue
		}
		s.order = append(s.order, i.ID)
		s.items[i.ID] = i
	}
}

func (s *IncidentStore) Get(id string) (*models.Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.items[id]
	return i, ok
}

func (s *IncidentStore) List() []*models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Incident, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *IncidentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// ActiveForAlert returns the current handling record for the alert:
// the newest open incident referencing it. The server is the source of
// truth, so when duplicate or out-of-order events leave more than one
// open incident for an alert, the newest write wins.
func (s *IncidentStore) ActiveForAlert(alertID string) (*models.Incident, bool) {
	if alertID == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		i := s.items[id]
		if i.AlertID == alertID && i.IsOpen() {
			return i, true
		}
	}
	return nil, false
}

func (s *IncidentStore) HasOpenForStation(stationID string) bool {
	if stationID == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, i := range s.items {
		if i.StationID == stationID && i.IsOpen() {
			return true
		}
	}
	return false
}
