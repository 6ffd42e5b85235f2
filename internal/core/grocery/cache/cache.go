package cache

import (
	"context"
	"fmt"

	"trip-pantry/internal/infrastructure/config"
	"trip-pantry/internal/pkg/common"
)

// Cache holds short-lived grocery list snapshots keyed by trip, so repeated
// reads within the TTL don't hit the grocery backend.
type Cache interface {
	Get(ctx context.Context, tripID string) ([]common.GroceryItem, bool)
	Set(ctx context.Context, tripID string, items []common.GroceryItem)
	Invalidate(ctx context.Context, tripID string)
	Close() error
}

// New selects a cache driver from configuration. A disabled cache yields a
// no-op implementation so callers never branch on nil.
func New(cfg *config.Config) (Cache, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("snapshot cache disabled")
		return nopCache{}, nil
	}

	switch cfg.Cache.Driver {
	case "memory":
		return NewManager(cfg), nil
	case "redis":
		return NewRedisCache(&cfg.Cache)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]common.GroceryItem, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []common.GroceryItem)       {}
func (nopCache) Invalidate(context.Context, string)                      {}
func (nopCache) Close() error                                            { return nil }
