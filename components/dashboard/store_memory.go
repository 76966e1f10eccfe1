package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryConfigStore is a concurrency-safe PersistenceGateway for tests and
// single-process deployments. Saves are last-write-wins.
type InMemoryConfigStore struct {
	mu   sync.RWMutex
	data map[string]UserDashboardConfig
}

// NewInMemoryConfigStore creates an empty store.
func NewInMemoryConfigStore() *InMemoryConfigStore {
	return &InMemoryConfigStore{
		data: make(map[string]UserDashboardConfig),
	}
}

// Load returns the stored configuration or ErrConfigNotFound.
func (s *InMemoryConfigStore) Load(_ context.Context, userID string) (UserDashboardConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.data[userID]
	if !ok {
		return UserDashboardConfig{}, ErrConfigNotFound
	}
	return cfg.Clone(), nil
}

// Save stores a copy of config keyed by its user id.
func (s *InMemoryConfigStore) Save(_ context.Context, config UserDashboardConfig) error {
	if config.UserID == "" {
		return fmt.Errorf("config store requires user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[config.UserID] = config.Clone()
	return nil
}

// Delete removes the stored configuration for userID.
func (s *InMemoryConfigStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}
