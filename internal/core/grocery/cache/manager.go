package cache

import (
	"context"
	"sync"
	"time"

	"trip-pantry/internal/infrastructure/config"
	"trip-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager is the in-memory snapshot cache driver: TTL expiry, a size cap with
// LRU eviction, and a background cleanup goroutine.
type Manager struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

type cacheEntry struct {
	items       []common.GroceryItem
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager creates the in-memory cache driver.
func NewManager(cfg *config.Config) *Manager {
	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	go m.startCleanup()

	common.LogInfo("snapshot cache initialized",
		zap.String("driver", "memory"),
		zap.Int("max_size", cfg.Cache.MaxSize),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get returns the cached snapshot for a trip, if present and fresh.
func (m *Manager) Get(ctx context.Context, tripID string) ([]common.GroceryItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[tripID]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", tripID)
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, tripID)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", tripID)
		return nil, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[tripID] = entry
	m.stats.hits++

	common.LogCacheHit("memory", tripID)
	return entry.items, true
}

// Set stores a snapshot for a trip.
func (m *Manager) Set(ctx context.Context, tripID string, items []common.GroceryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.Cache.MaxSize {
		if evicted := m.cleanupLocked(); evicted == 0 {
			m.evictLRULocked()
		}
	}

	now := time.Now()
	m.store[tripID] = cacheEntry{
		items:      items,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// Invalidate drops a trip's snapshot, typically after a write to the list.
func (m *Manager) Invalidate(ctx context.Context, tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[tripID]; exists {
		delete(m.store, tripID)
		m.stats.evictions++
	}
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanupLocked removes expired entries. Caller must hold the lock.
func (m *Manager) cleanupLocked() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("cleaned up expired snapshot cache entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRULocked removes the least-used entry. Caller must hold the lock.
func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("snapshot cache evicted (LRU)",
			zap.String("trip_id", oldestKey),
		)
	}
}

// Stats returns cache counters for the health endpoint.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close stops the cleanup goroutine and drops all entries.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
	default:
		close(m.done)
	}

	m.store = make(map[string]cacheEntry)
	common.LogInfo("snapshot cache closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
