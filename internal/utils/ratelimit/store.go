package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultCategory = "default"

// Store manages rate limiters for multiple clients and categories.
// A background sweeper drops limiters idle for longer than twice their window.
type Store struct {
	// limiters maps "category|clientID" to a limiter
	limiters map[string]*Limiter

	// rates defines the budget per category
	rates map[string]Rate

	// mu protects the maps above
	mu sync.Mutex

	cleanupInterval time.Duration
	stop            chan struct{}
	done            chan struct{}
	stopOnce        sync.Once
}

// NewStore creates a new store for managing rate limiters and starts its sweeper.
//
// Parameters:
//   - defaultRate: The budget for categories without an explicit rate
//   - cleanupInterval: How often to sweep idle limiters
//
// Returns:
//   - A configured limiter store. Call Stop to end the sweeper.
func NewStore(defaultRate Rate, cleanupInterval time.Duration) *Store {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	store := &Store{
		limiters:        make(map[string]*Limiter),
		rates:           map[string]Rate{defaultCategory: defaultRate},
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}

	go store.cleanupRoutine()

	return store
}

// GetLimiter returns the limiter for a client in a category, creating it on first use.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The budget category (e.g., "api", "auth")
func (s *Store) GetLimiter(clientID string, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[key]; exists {
		return limiter
	}

	budget, exists := s.rates[category]
	if !exists {
		budget = s.rates[defaultCategory]
	}

	limiter := NewLimiter(budget)
	s.limiters[key] = limiter
	return limiter
}

// SetRate sets the budget for a category. Existing limiters keep their budget.
func (s *Store) SetRate(category string, budget Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = budget
}

// Len returns the number of tracked limiters.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// Stop ends the sweeper goroutine. It is safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Store) cleanupRoutine() {
	defer close(s.done)

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.cleanup(now)
		}
	}
}

// cleanup removes limiters idle for longer than twice their window.
func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.idleSince(now) > 2*limiter.budget.Window {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.limiters)).Msg("Swept idle rate limiters")
	}
}
