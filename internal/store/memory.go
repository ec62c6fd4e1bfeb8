package store

import (
	"sync"

	"github.com/AngelCh415/growthmap-dashboard/internal/models"
)

// FunnelStore holds funnel groups keyed by (campaign, ad set, ad) in insertion order.
// Today it is seeded with a fixed dataset; a real pipeline would Upsert joined step counts.
type FunnelStore struct {
	mu     sync.RWMutex
	groups map[models.FunnelKey]*models.FunnelGroup
	order  []models.FunnelKey
}

func NewFunnelStore() *FunnelStore {
	return &FunnelStore{groups: make(map[models.FunnelKey]*models.FunnelGroup)}
}

// NewMockFunnelStore returns a store holding the single mock group the quiz view shows.
func NewMockFunnelStore() *FunnelStore {
	s := NewFunnelStore()
	s.Upsert(models.FunnelGroup{
		Campaign: "Test Campaign",
		AdSet:    "Test Ad Set",
		AdName:   "Test Ad",
		Steps: []models.FunnelStep{
			{Step: models.StepLanding, Count: 1000},
			{Step: models.StepQ1, Count: 850},
			{Step: models.StepQ2, Count: 720},
			{Step: models.StepQ3, Count: 650},
			{Step: models.StepQ4, Count: 600},
			{Step: models.StepQ5, Count: 550},
			{Step: models.StepEmailSubmit, Count: 500},
			{Step: models.StepLovableView, Count: 480},
			{Step: models.StepCheckoutInit, Count: 120},
			{Step: models.StepPurchase, Count: 45},
		},
	})
	return s
}

// Upsert replaces the steps of an existing group or appends a new one.
func (s *FunnelStore) Upsert(g models.FunnelGroup) {
	k := g.Key()
	steps := append([]models.FunnelStep(nil), g.Steps...)
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.groups[k]; ok {
		cur.Steps = steps
		return
	}
	g.Steps = steps
	s.groups[k] = &g
	s.order = append(s.order, k)
}

func (s *FunnelStore) All() []models.FunnelGroup {
	return s.Query(nil)
}

// Query returns copies of the groups accepted by f (all of them when f is nil).
func (s *FunnelStore) Query(f func(models.FunnelGroup) bool) []models.FunnelGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FunnelGroup, 0, len(s.order))
	for _, k := range s.order {
		g := *s.groups[k]
		if f == nil || f(g) {
			g.Steps = append([]models.FunnelStep(nil), g.Steps...)
			out = append(out, g)
		}
	}
	return out
}
