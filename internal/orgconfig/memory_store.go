package orgconfig

import (
	"context"
	"sync"
)

// MemoryStore keeps configurations in process memory. Used for local
// development without redis and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	cfgs     map[string]*Config
	defaults Defaults
}

// NewMemoryStore creates an empty in-memory config store.
func NewMemoryStore(defaults Defaults) *MemoryStore {
	return &MemoryStore{cfgs: make(map[string]*Config), defaults: defaults}
}

// Get returns the stored config, or the documented defaults.
func (s *MemoryStore) Get(_ context.Context, orgID string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.cfgs[orgID]; ok {
		cp := *cfg
		return &cp, nil
	}
	return DefaultConfig(orgID, s.defaults), nil
}

// Set validates and stores the config.
func (s *MemoryStore) Set(_ context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cfg
	s.cfgs[cfg.OrgID] = &cp
	return nil
}
