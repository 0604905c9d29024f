package stores

import (
	"sync"

	"firedesk/models"
)

// StationStore is a flat id-to-station lookup refreshed on each sync.
// Referral eligibility reads the out-of-commission flag from here.
type StationStore struct {
	mu    sync.RWMutex
	items map[string]*models.Station
}

func NewStationStore() *StationStore {
	return &StationStore{
		items: make(map[string]*models.Station),
	}
}

func (s *StationStore) Upsert(st *models.Station) {
	if st == nil || st.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[st.ID] = st
}

func (s *StationStore) ReplaceAll(stations []*models.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*models.Station, len(stations))
	for _, st := range stations {
		if st == nil || st.ID == "" {
			continue
		}
		s.items[st.ID] = st
	}
}

func (s *StationStore) Get(id string) (*models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.items[id]
	return st, ok
}

func (s *StationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
