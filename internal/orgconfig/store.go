package orgconfig

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store provides persistence for org scheduling configurations.
type Store struct {
	redis    *redis.Client
	defaults Defaults
}

// NewStore creates a new scheduling config store. defaults are served when
// an org has no stored configuration.
func NewStore(redisClient *redis.Client, defaults Defaults) *Store {
	return &Store{redis: redisClient, defaults: defaults}
}

func (s *Store) key(orgID string) string {
	return fmt.Sprintf("scheduling:config:%s", orgID)
}

// Get retrieves an org's scheduling config, returning the documented
// defaults if none is stored.
func (s *Store) Get(ctx context.Context, orgID string) (*Config, error) {
	data, err := s.redis.Get(ctx, s.key(orgID)).Bytes()
	if err == redis.Nil {
		return DefaultConfig(orgID, s.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("orgconfig: get config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("orgconfig: unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Set validates and saves an org's scheduling config.
func (s *Store) Set(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("orgconfig: marshal config: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(cfg.OrgID), data, 0).Err(); err != nil {
		return fmt.Errorf("orgconfig: set config: %w", err)
	}

	return nil
}
