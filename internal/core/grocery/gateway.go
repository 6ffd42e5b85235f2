package grocery

import (
	"context"

	"trip-pantry/internal/core/grocery/cache"
	"trip-pantry/internal/pkg/common"
)

// Gateway is the read/create surface over the external grocery list that the
// rest of the service depends on.
type Gateway interface {
	FetchItems(ctx context.Context, tripID string) ([]common.GroceryItem, error)
	CreateItem(ctx context.Context, tripID, name string) (common.GroceryItem, error)
}

// CachedGateway wraps the backend client with the snapshot cache. Reads serve
// from cache within the TTL; any create invalidates the trip's snapshot so the
// next read refetches.
type CachedGateway struct {
	client Gateway
	cache  cache.Cache
}

// NewCachedGateway creates a gateway over the given client and cache.
func NewCachedGateway(client Gateway, c cache.Cache) *CachedGateway {
	return &CachedGateway{
		client: client,
		cache:  c,
	}
}

// FetchItems returns the trip's grocery list, from cache when fresh.
func (g *CachedGateway) FetchItems(ctx context.Context, tripID string) ([]common.GroceryItem, error) {
	if items, ok := g.cache.Get(ctx, tripID); ok {
		return items, nil
	}

	items, err := g.client.FetchItems(ctx, tripID)
	if err != nil {
		return nil, err
	}

	g.cache.Set(ctx, tripID, items)
	return items, nil
}

// CreateItem forwards the create and invalidates the trip's cached snapshot.
func (g *CachedGateway) CreateItem(ctx context.Context, tripID, name string) (common.GroceryItem, error) {
	item, err := g.client.CreateItem(ctx, tripID, name)
	if err != nil {
		return common.GroceryItem{}, err
	}

	g.cache.Invalidate(ctx, tripID)
	return item, nil
}
