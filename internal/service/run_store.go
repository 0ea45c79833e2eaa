package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// RunStore keeps scheduling runs between execution and commit.
type RunStore interface {
	Save(ctx context.Context, run models.SchedulingRun) error
	Get(ctx context.Context, id string) (*models.SchedulingRun, bool, error)
}

// NewRunStore prefers the shared cache when it is enabled so that every API
// replica sees the same runs.
func NewRunStore(cache *CacheService, ttl time.Duration) RunStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if cache.Enabled() {
		return &cacheRunStore{cache: cache, ttl: ttl}
	}
	return newMemoryRunStore(ttl)
}

type memoryRunStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]models.SchedulingRun
}

func newMemoryRunStore(ttl time.Duration) *memoryRunStore {
	return &memoryRunStore{ttl: ttl, now: time.Now, items: make(map[string]models.SchedulingRun)}
}

func (s *memoryRunStore) Save(_ context.Context, run models.SchedulingRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[run.ID] = run
	s.evictLocked()
	return nil
}

func (s *memoryRunStore) Get(_ context.Context, id string) (*models.SchedulingRun, bool, error) {
	s.mu.RLock()
	run, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.expired(run) {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
		return nil, false, nil
	}
	return &run, true, nil
}

func (s *memoryRunStore) expired(run models.SchedulingRun) bool {
	return s.now().Sub(run.CreatedAt) > s.ttl
}

func (s *memoryRunStore) evictLocked() {
	for id, run := range s.items {
		if s.expired(run) {
			delete(s.items, id)
		}
	}
}

type cacheRunStore struct {
	cache *CacheService
	ttl   time.Duration
}

func (s *cacheRunStore) Save(ctx context.Context, run models.SchedulingRun) error {
	return s.cache.Set(ctx, runCacheKey(run.ID), run, s.ttl)
}

func (s *cacheRunStore) Get(ctx context.Context, id string) (*models.SchedulingRun, bool, error) {
	var run models.SchedulingRun
	hit, err := s.cache.Get(ctx, runCacheKey(id), &run)
	if err != nil || !hit {
		return nil, false, err
	}
	return &run, true, nil
}
