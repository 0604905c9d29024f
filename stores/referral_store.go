package stores

import (
	"sync"

	"firedesk/models"
)

type ReferralStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Referral
}

func NewReferralStore() *ReferralStore {
	return &ReferralStore{
		items: make(map[string]*models.Referral),
	}
}

func (s *ReferralStore) Upsert(r *models.Referral) {
	if r == nil || r.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[r.ID]; !exists {
		s.order = append([]string{r.ID}, s.order...)
	}
	s.items[r.ID] = r
}

func (s *ReferralStore) Remove(id string) {
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

func (s *ReferralStore) ReplaceAll(referrals []*models.Referral) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]*models.Referral, len(referrals))
	for _, r := range referrals {
		if r == nil || r.ID == "" {
			continue
		}
		if _, exists := s.items[r.ID]; exists {
			s.items[r.ID] = r
			continue
		}
		s.order = append(s.order, r.ID)
		s.items[r.ID] = r
	}
}

func (s *ReferralStore) Get(id string) (*models.Referral, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	return r, ok
}

func (s *ReferralStore) List() []*models.Referral {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Referral, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *ReferralStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
