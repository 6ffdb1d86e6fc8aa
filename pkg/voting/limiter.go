package voting

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-keypad rate limiters for the hardware
// callback endpoints: keypad_id -> rate limiter.
type RateLimiterStore struct {
	limiters     map[int]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[int]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(keypadID int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[keypadID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[keypadID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(keypadID int, keypadRate rate.Limit, keypadBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[keypadID] = rate.NewLimiter(keypadRate, keypadBurst)
}
